// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"

	"github.com/meterio/meter-auction/api/transfers"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/tx"
)

type transferReader struct {
	db     *logdb.LogDB
	filter *logdb.TransferFilter
}

func newTransferReader(db *logdb.LogDB, filter *logdb.TransferFilter) *transferReader {
	return &transferReader{
		db:     db,
		filter: filter,
	}
}

func (tr *transferReader) Read(ctx context.Context, pos uint64, limit uint64) ([]*message, error) {
	f := *tr.filter
	f.Range = &logdb.Range{Unit: logdb.Seq, From: pos + 1}
	f.Options = &logdb.Options{Limit: limit}
	ts, err := tr.db.FilterTransfers(ctx, &f)
	if err != nil {
		return nil, err
	}
	msgs := make([]*message, 0, len(ts))
	for _, t := range ts {
		msgs = append(msgs, &message{t.Seq, transfers.ConvertTransfer(t)})
	}
	return msgs, nil
}

func (tr *transferReader) Filter(r *tx.Receipt) []*message {
	var msgs []*message
	for _, t := range logdb.TransfersOf(r) {
		if tr.filter.Match(t) {
			msgs = append(msgs, &message{t.Seq, transfers.ConvertTransfer(t)})
		}
	}
	return msgs
}
