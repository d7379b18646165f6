// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package clock provides the time source auctions are gated on.
package clock

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/beevik/ntp"
	"github.com/meterio/meter-auction/meter"
)

// Clock returns the current time as unix seconds.
type Clock interface {
	Now() uint64
}

// System reads the local wall clock.
type System struct{}

func (System) Now() uint64 { return uint64(time.Now().Unix()) }

// Offset is the local clock corrected by an offset measured against an NTP server.
type Offset struct {
	offset atomic.Int64 // nanoseconds
}

// NewOffset queries server once and returns a clock corrected by the measured
// offset. Offsets larger than tolerance are logged.
func NewOffset(server string, tolerance time.Duration) (*Offset, error) {
	c := &Offset{}
	if err := c.Sync(server, tolerance); err != nil {
		return nil, err
	}
	return c, nil
}

// Sync re-measures the clock offset.
func (c *Offset) Sync(server string, tolerance time.Duration) error {
	resp, err := ntp.Query(server)
	if err != nil {
		return err
	}
	if err := resp.Validate(); err != nil {
		return err
	}
	if resp.ClockOffset > tolerance || resp.ClockOffset < -tolerance {
		slog.Warn("clock offset detected", "offset", meter.PrettyDuration(resp.ClockOffset), "server", server)
	}
	c.offset.Store(int64(resp.ClockOffset))
	return nil
}

func (c *Offset) Now() uint64 {
	return uint64(time.Now().Add(time.Duration(c.offset.Load())).Unix())
}

// Manual only moves when told to.
type Manual struct {
	now atomic.Uint64
}

func NewManual(now uint64) *Manual {
	m := &Manual{}
	m.now.Store(now)
	return m
}

func (m *Manual) Now() uint64 { return m.now.Load() }

// Set jumps to ts, which may be in the past.
func (m *Manual) Set(ts uint64) { m.now.Store(ts) }

// Advance moves the clock forward by d seconds and returns the new time.
func (m *Manual) Advance(d uint64) uint64 { return m.now.Add(d) }
