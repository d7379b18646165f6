// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auctiondb

import (
	"context"

	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/tx"
	"github.com/pkg/errors"
)

// SaveLedger stores a snapshot of the token ledger.
func (s *Store) SaveLedger(snap *state.Snapshot) error {
	data, err := snap.Encode()
	if err != nil {
		return err
	}
	return errors.Wrap(s.db.Put(ledgerKey, data), "write ledger")
}

// LoadLedger returns the last saved ledger snapshot, nil if there is none.
func (s *Store) LoadLedger() (*state.Snapshot, error) {
	data, err := s.db.Get(ledgerKey)
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read ledger")
	}
	return state.DecodeSnapshot(data)
}

// LedgerSink saves the ledger after every committed call.
type LedgerSink struct {
	store *Store
	state *state.State
}

func NewLedgerSink(store *Store, st *state.State) *LedgerSink {
	return &LedgerSink{store, st}
}

func (l *LedgerSink) Publish(ctx context.Context, r *tx.Receipt) error {
	return l.store.SaveLedger(l.state.Snapshot(ctx))
}
