// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auctiondb

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/auction"
	"github.com/meterio/meter-auction/lvldb"
)

var (
	listingPrefix = []byte("l") // (prefix, asset id) -> current listing
	historyPrefix = []byte("h") // (prefix, asset id, round) -> settled listing
	ledgerKey     = []byte("s") // token ledger snapshot
)

func assetKey(prefix []byte, assetID uint64) []byte {
	key := make([]byte, 0, len(prefix)+8)
	key = append(key, prefix...)
	return binary.BigEndian.AppendUint64(key, assetID)
}

func roundKey(assetID uint64, round uint32) []byte {
	return binary.BigEndian.AppendUint32(assetKey(historyPrefix, assetID), round)
}

func saveRLP(w lvldb.Putter, key []byte, val interface{}) error {
	data, err := rlp.EncodeToBytes(val)
	if err != nil {
		return err
	}
	return w.Put(key, data)
}

func loadRLP(r lvldb.Getter, key []byte, val interface{}) error {
	data, err := r.Get(key)
	if err != nil {
		return err
	}
	return rlp.DecodeBytes(data, val)
}

// saveListing saves the current record of an asset, and archives it when settled.
func saveListing(w lvldb.Putter, l *auction.Listing) error {
	if err := saveRLP(w, assetKey(listingPrefix, l.AssetID), l); err != nil {
		return err
	}
	if l.Settled {
		return saveRLP(w, roundKey(l.AssetID, l.Round), l)
	}
	return nil
}

func loadListing(r lvldb.Getter, assetID uint64) (*auction.Listing, error) {
	var l auction.Listing
	if err := loadRLP(r, assetKey(listingPrefix, assetID), &l); err != nil {
		return nil, err
	}
	return &l, nil
}
