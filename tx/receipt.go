// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
)

// Receipt collects the observable effects of one committed engine call.
type Receipt struct {
	ID        meter.Bytes32
	Seq       uint64
	Time      uint64
	Caller    meter.Address
	Op        string
	AssetID   uint64
	Events    Events
	Transfers Transfers
}

// NewReceipt creates an empty receipt, the id is derived from the call header.
func NewReceipt(seq uint64, time uint64, caller meter.Address, op string, assetID uint64) *Receipt {
	r := &Receipt{
		Seq:     seq,
		Time:    time,
		Caller:  caller,
		Op:      op,
		AssetID: assetID,
	}
	r.ID = r.headerHash()
	return r
}

func (r *Receipt) headerHash() (hash meter.Bytes32) {
	hw := meter.NewBlake2b()
	err := rlp.Encode(hw, []interface{}{
		r.Seq,
		r.Time,
		r.Caller,
		r.Op,
		r.AssetID,
	})
	if err != nil {
		return
	}
	hw.Sum(hash[:0])
	return
}
