// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
)

// Outcome is how a settled listing was resolved.
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomeSale
	OutcomeWithdrawn
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSale:
		return "sale"
	case OutcomeWithdrawn:
		return "withdrawn"
	default:
		return "none"
	}
}

// Listing is the escrow record of one asset's auction.
type Listing struct {
	AssetID       uint64
	Round         uint32 // 1 for the first listing of the asset id
	Seller        meter.Address
	PaymentToken  meter.Address
	AssetRegistry meter.Address
	MinPrice      *big.Int
	StartTime     uint64
	EndTime       uint64
	ListedAt      uint64
	HighestBid    *big.Int       // zero until the first accepted bid
	HighestBidder *meter.Address `rlp:"nil"`
	Settled       bool
	Outcome       Outcome
	SettledAt     uint64
}

// ListRequest carries the arguments of ListAsset.
type ListRequest struct {
	AssetID       uint64
	PaymentToken  meter.Address
	AssetRegistry meter.Address
	MinPrice      *big.Int
	StartTime     uint64
	EndTime       uint64
}

func (l *Listing) HasBid() bool {
	return l.HighestBidder != nil
}

// Copy returns a deep copy.
func (l *Listing) Copy() *Listing {
	cpy := *l
	if l.MinPrice != nil {
		cpy.MinPrice = new(big.Int).Set(l.MinPrice)
	}
	if l.HighestBid != nil {
		cpy.HighestBid = new(big.Int).Set(l.HighestBid)
	}
	if l.HighestBidder != nil {
		bidder := *l.HighestBidder
		cpy.HighestBidder = &bidder
	}
	return &cpy
}

func (l *Listing) String() string {
	bidder := "none"
	if l.HighestBidder != nil {
		bidder = l.HighestBidder.String()
	}
	return fmt.Sprintf("Listing(asset=%v, round=%v, seller=%v, token=%v, registry=%v, minPrice=%v, start=%v, end=%v, highestBid=%v, highestBidder=%v, settled=%v, outcome=%v)",
		l.AssetID, l.Round, l.Seller, l.PaymentToken, l.AssetRegistry, l.MinPrice, l.StartTime, l.EndTime, l.HighestBid, bidder, l.Settled, l.Outcome)
}

func EncodeListing(l *Listing) ([]byte, error) {
	return rlp.EncodeToBytes(l)
}

func DecodeListing(data []byte) (*Listing, error) {
	l := &Listing{}
	if err := rlp.DecodeBytes(data, l); err != nil {
		return nil, err
	}
	return l, nil
}
