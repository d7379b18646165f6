// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/meterio/meter-auction/auction"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
)

type Listing struct {
	AssetID       uint64                `json:"assetId"`
	Round         uint32                `json:"round"`
	Seller        meter.Address         `json:"seller"`
	PaymentToken  meter.Address         `json:"paymentToken"`
	AssetRegistry meter.Address         `json:"assetRegistry"`
	MinPrice      *math.HexOrDecimal256 `json:"minPrice"`
	StartTime     uint64                `json:"startTime"`
	EndTime       uint64                `json:"endTime"`
	ListedAt      uint64                `json:"listedAt"`
	HighestBid    *math.HexOrDecimal256 `json:"highestBid"`
	HighestBidder *meter.Address        `json:"highestBidder"`
	Phase         string                `json:"phase,omitempty"`
	Settled       bool                  `json:"settled"`
	Outcome       string                `json:"outcome"`
	SettledAt     uint64                `json:"settledAt"`
}

func amount(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		return nil
	}
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}

func convertListing(l *auction.Listing) *Listing {
	return &Listing{
		AssetID:       l.AssetID,
		Round:         l.Round,
		Seller:        l.Seller,
		PaymentToken:  l.PaymentToken,
		AssetRegistry: l.AssetRegistry,
		MinPrice:      amount(l.MinPrice),
		StartTime:     l.StartTime,
		EndTime:       l.EndTime,
		ListedAt:      l.ListedAt,
		HighestBid:    amount(l.HighestBid),
		HighestBidder: l.HighestBidder,
		Settled:       l.Settled,
		Outcome:       l.Outcome.String(),
		SettledAt:     l.SettledAt,
	}
}

func convertListings(list []*auction.Listing) []*Listing {
	result := make([]*Listing, 0, len(list))
	for _, l := range list {
		result = append(result, convertListing(l))
	}
	return result
}

type ListRequest struct {
	Caller        meter.Address         `json:"caller"`
	AssetID       uint64                `json:"assetId"`
	PaymentToken  meter.Address         `json:"paymentToken"`
	AssetRegistry meter.Address         `json:"assetRegistry"`
	MinPrice      *math.HexOrDecimal256 `json:"minPrice"`
	StartTime     uint64                `json:"startTime"`
	EndTime       uint64                `json:"endTime"`
}

type BidRequest struct {
	Caller meter.Address         `json:"caller"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type FinishRequest struct {
	Caller meter.Address `json:"caller"`
}

type Event struct {
	Name    string                `json:"name,omitempty"`
	AssetID uint64                `json:"assetId"`
	Actor   meter.Address         `json:"actor"`
	Amount  *math.HexOrDecimal256 `json:"amount,omitempty"`
	Token   meter.Address         `json:"token"`
	Address meter.Address         `json:"address"`
	Topics  []meter.Bytes32       `json:"topics"`
	Data    string                `json:"data"`
}

// ConvertEvent converts a log of the engine, undecodable logs keep only the raw fields.
func ConvertEvent(raw *tx.Event) *Event {
	ev := &Event{
		Address: raw.Address,
		Topics:  raw.Topics,
		Data:    hexutil.Encode(raw.Data),
	}
	if decoded, err := auction.DecodeEvent(raw); err == nil {
		ev.Name = decoded.Name
		ev.AssetID = decoded.AssetID
		ev.Actor = decoded.Actor
		ev.Amount = amount(decoded.Amount)
		ev.Token = decoded.Token
	}
	return ev
}

type Transfer struct {
	Token       meter.Address         `json:"token"`
	Sender      meter.Address         `json:"sender"`
	Recipient   meter.Address         `json:"recipient"`
	Amount      *math.HexOrDecimal256 `json:"amount"`
	NonFungible bool                  `json:"nonFungible"`
}

type Receipt struct {
	ID        meter.Bytes32 `json:"id"`
	Seq       uint64        `json:"seq"`
	Time      uint64        `json:"time"`
	Caller    meter.Address `json:"caller"`
	Op        string        `json:"op"`
	AssetID   uint64        `json:"assetId"`
	Events    []*Event      `json:"events"`
	Transfers []*Transfer   `json:"transfers"`
}

func convertReceipt(r *tx.Receipt) *Receipt {
	receipt := &Receipt{
		ID:        r.ID,
		Seq:       r.Seq,
		Time:      r.Time,
		Caller:    r.Caller,
		Op:        r.Op,
		AssetID:   r.AssetID,
		Events:    make([]*Event, 0, len(r.Events)),
		Transfers: make([]*Transfer, 0, len(r.Transfers)),
	}
	for _, ev := range r.Events {
		receipt.Events = append(receipt.Events, ConvertEvent(ev))
	}
	for _, t := range r.Transfers {
		receipt.Transfers = append(receipt.Transfers, &Transfer{
			Token:       t.Token,
			Sender:      t.Sender,
			Recipient:   t.Recipient,
			Amount:      amount(t.Amount),
			NonFungible: t.NonFungible,
		})
	}
	return receipt
}

// Error is the body of a rejected call.
type Error struct {
	Kind      string `json:"kind"`
	Reason    string `json:"reason"`
	Temporary bool   `json:"temporary"`
}
