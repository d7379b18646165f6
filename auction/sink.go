// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"context"

	"github.com/meterio/meter-auction/tx"
)

// Sink receives the receipt of every committed call, in commit order per asset.
type Sink interface {
	Publish(ctx context.Context, r *tx.Receipt) error
}

// Sinks fans a receipt out to several sinks.
type Sinks []Sink

func (s Sinks) Publish(ctx context.Context, r *tx.Receipt) error {
	var first error
	for _, sink := range s {
		if err := sink.Publish(ctx, r); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, r *tx.Receipt) error

func (f SinkFunc) Publish(ctx context.Context, r *tx.Receipt) error { return f(ctx, r) }
