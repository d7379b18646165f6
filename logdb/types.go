// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math/big"

	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
)

// Event represents tx.Event that can be stored in db.
type Event struct {
	ReceiptID meter.Bytes32
	Index     uint32
	Seq       uint64
	Time      uint64
	Op        string
	Caller    meter.Address
	AssetID   uint64
	Address   meter.Address // always the engine address
	Topics    [5]*meter.Bytes32
	Data      []byte
}

// newEvent converts tx.Event to Event.
func newEvent(r *tx.Receipt, index uint32, txEvent *tx.Event) *Event {
	ev := &Event{
		ReceiptID: r.ID,
		Index:     index,
		Seq:       r.Seq,
		Time:      r.Time,
		Op:        r.Op,
		Caller:    r.Caller,
		AssetID:   r.AssetID,
		Address:   txEvent.Address,
		Data:      txEvent.Data,
	}
	for i := 0; i < len(txEvent.Topics) && i < len(ev.Topics); i++ {
		topic := txEvent.Topics[i]
		ev.Topics[i] = &topic
	}
	return ev
}

// Raw returns the event as logged.
func (ev *Event) Raw() *tx.Event {
	raw := &tx.Event{Address: ev.Address, Data: ev.Data}
	for _, topic := range ev.Topics {
		if topic == nil {
			break
		}
		raw.Topics = append(raw.Topics, *topic)
	}
	return raw
}

// Transfer represents tx.Transfer that can be stored in db.
type Transfer struct {
	ReceiptID   meter.Bytes32
	Index       uint32
	Seq         uint64
	Time        uint64
	Caller      meter.Address
	AssetID     uint64
	Token       meter.Address
	Sender      meter.Address
	Recipient   meter.Address
	Amount      *big.Int
	NonFungible bool
}

// newTransfer converts tx.Transfer to Transfer.
func newTransfer(r *tx.Receipt, index uint32, transfer *tx.Transfer) *Transfer {
	return &Transfer{
		ReceiptID:   r.ID,
		Index:       index,
		Seq:         r.Seq,
		Time:        r.Time,
		Caller:      r.Caller,
		AssetID:     r.AssetID,
		Token:       transfer.Token,
		Sender:      transfer.Sender,
		Recipient:   transfer.Recipient,
		Amount:      transfer.Amount,
		NonFungible: transfer.NonFungible,
	}
}

type RangeType string

const (
	Seq  RangeType = "seq"
	Time RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventCriteria struct {
	Address *meter.Address
	Topics  [5]*meter.Bytes32
}

// EventFilter filter
type EventFilter struct {
	AssetID     *uint64
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order //default asc
}

type TransferCriteria struct {
	Caller    *meter.Address // who called the engine
	Token     *meter.Address
	Sender    *meter.Address
	Recipient *meter.Address
}

type TransferFilter struct {
	ReceiptID   *meter.Bytes32
	AssetID     *uint64
	CriteriaSet []*TransferCriteria
	Range       *Range
	Options     *Options
	Order       Order //default asc
}

// EventsOf returns the logs of r in their stored form.
func EventsOf(r *tx.Receipt) []*Event {
	events := make([]*Event, 0, len(r.Events))
	for i, event := range r.Events {
		events = append(events, newEvent(r, uint32(i), event))
	}
	return events
}

// TransfersOf returns the transfers of r in their stored form.
func TransfersOf(r *tx.Receipt) []*Transfer {
	transfers := make([]*Transfer, 0, len(r.Transfers))
	for i, transfer := range r.Transfers {
		transfers = append(transfers, newTransfer(r, uint32(i), transfer))
	}
	return transfers
}

func (c *EventCriteria) Match(ev *Event) bool {
	if c.Address != nil && *c.Address != ev.Address {
		return false
	}
	for i, topic := range c.Topics {
		if topic == nil {
			continue
		}
		if ev.Topics[i] == nil || *ev.Topics[i] != *topic {
			return false
		}
	}
	return true
}

// Match reports whether ev satisfies the asset and criteria conditions of
// the filter. Range, options and order are ignored.
func (f *EventFilter) Match(ev *Event) bool {
	if f.AssetID != nil && *f.AssetID != ev.AssetID {
		return false
	}
	if len(f.CriteriaSet) == 0 {
		return true
	}
	for _, c := range f.CriteriaSet {
		if c.Match(ev) {
			return true
		}
	}
	return false
}

func (c *TransferCriteria) Match(t *Transfer) bool {
	if c.Caller != nil && *c.Caller != t.Caller {
		return false
	}
	if c.Token != nil && *c.Token != t.Token {
		return false
	}
	if c.Sender != nil && *c.Sender != t.Sender {
		return false
	}
	if c.Recipient != nil && *c.Recipient != t.Recipient {
		return false
	}
	return true
}

// Match reports whether t satisfies the receipt, asset and criteria
// conditions of the filter.
func (f *TransferFilter) Match(t *Transfer) bool {
	if f.ReceiptID != nil && *f.ReceiptID != t.ReceiptID {
		return false
	}
	if f.AssetID != nil && *f.AssetID != t.AssetID {
		return false
	}
	if len(f.CriteriaSet) == 0 {
		return true
	}
	for _, c := range f.CriteriaSet {
		if c.Match(t) {
			return true
		}
	}
	return false
}
