// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/meterio/meter-auction/api/auction"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/meter"
)

// LogMeta locates a log in the sequence of committed engine calls.
type LogMeta struct {
	ReceiptID meter.Bytes32 `json:"receiptID"`
	Seq       uint64        `json:"seq"`
	Time      uint64        `json:"time"`
	Op        string        `json:"op"`
	Caller    meter.Address `json:"caller"`
	AssetID   uint64        `json:"assetId"`
}

type TopicSet struct {
	Topic0 *meter.Bytes32 `json:"topic0"`
	Topic1 *meter.Bytes32 `json:"topic1"`
	Topic2 *meter.Bytes32 `json:"topic2"`
	Topic3 *meter.Bytes32 `json:"topic3"`
	Topic4 *meter.Bytes32 `json:"topic4"`
}

// FilteredEvent only comes from the engine
type FilteredEvent struct {
	Address meter.Address    `json:"address"`
	Topics  []*meter.Bytes32 `json:"topics"`
	Data    string           `json:"data"`
	Decoded *auction.Event   `json:"decoded,omitempty"`
	Meta    LogMeta          `json:"meta"`
}

// ConvertEvent convert a logdb.Event into a json format Event
func ConvertEvent(event *logdb.Event) *FilteredEvent {
	fe := FilteredEvent{
		Address: event.Address,
		Data:    hexutil.Encode(event.Data),
		Meta: LogMeta{
			ReceiptID: event.ReceiptID,
			Seq:       event.Seq,
			Time:      event.Time,
			Op:        event.Op,
			Caller:    event.Caller,
			AssetID:   event.AssetID,
		},
	}
	fe.Topics = make([]*meter.Bytes32, 0)
	for i := 0; i < 5; i++ {
		if event.Topics[i] != nil {
			fe.Topics = append(fe.Topics, event.Topics[i])
		}
	}
	if decoded := auction.ConvertEvent(event.Raw()); decoded.Name != "" {
		fe.Decoded = decoded
	}
	return &fe
}

func (e *FilteredEvent) String() string {
	return fmt.Sprintf(`
		Event(
			address:       %v,
			topics:        %v,
			data:          %v,
			meta: (receiptID %v,
				seq      %v,
				time     %v,
				op       %v,
				assetId  %v)
			)`,
		e.Address,
		e.Topics,
		e.Data,
		e.Meta.ReceiptID,
		e.Meta.Seq,
		e.Meta.Time,
		e.Meta.Op,
		e.Meta.AssetID,
	)
}

type EventCriteria struct {
	Address *meter.Address `json:"address"`
	TopicSet
}

type EventFilter struct {
	AssetID     *uint64          `json:"assetId"`
	CriteriaSet []*EventCriteria `json:"criteriaSet"`
	Range       *logdb.Range     `json:"range"`
	Options     *logdb.Options   `json:"options"`
	Order       logdb.Order      `json:"order"`
}

func convertEventFilter(filter *EventFilter) *logdb.EventFilter {
	f := &logdb.EventFilter{
		AssetID: filter.AssetID,
		Range:   filter.Range,
		Options: filter.Options,
		Order:   filter.Order,
	}
	if len(filter.CriteriaSet) > 0 {
		criterias := make([]*logdb.EventCriteria, len(filter.CriteriaSet))
		for i, criteria := range filter.CriteriaSet {
			var topics [5]*meter.Bytes32
			topics[0] = criteria.Topic0
			topics[1] = criteria.Topic1
			topics[2] = criteria.Topic2
			topics[3] = criteria.Topic3
			topics[4] = criteria.Topic4
			criterias[i] = &logdb.EventCriteria{
				Address: criteria.Address,
				Topics:  topics,
			}
		}
		f.CriteriaSet = criterias
	}
	return f
}
