// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"

	"github.com/meterio/meter-auction/api/events"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/tx"
)

type eventReader struct {
	db     *logdb.LogDB
	filter *logdb.EventFilter
}

func newEventReader(db *logdb.LogDB, filter *logdb.EventFilter) *eventReader {
	return &eventReader{
		db:     db,
		filter: filter,
	}
}

func (er *eventReader) Read(ctx context.Context, pos uint64, limit uint64) ([]*message, error) {
	f := *er.filter
	// To below From leaves the range open ended
	f.Range = &logdb.Range{Unit: logdb.Seq, From: pos + 1}
	f.Options = &logdb.Options{Limit: limit}
	evs, err := er.db.FilterEvents(ctx, &f)
	if err != nil {
		return nil, err
	}
	msgs := make([]*message, 0, len(evs))
	for _, ev := range evs {
		msgs = append(msgs, &message{ev.Seq, events.ConvertEvent(ev)})
	}
	return msgs, nil
}

func (er *eventReader) Filter(r *tx.Receipt) []*message {
	var msgs []*message
	for _, ev := range logdb.EventsOf(r) {
		if er.filter.Match(ev) {
			msgs = append(msgs, &message{ev.Seq, events.ConvertEvent(ev)})
		}
	}
	return msgs
}
