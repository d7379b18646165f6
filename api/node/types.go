// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"github.com/meterio/meter-auction/meter"
)

type Engine interface {
	Address() meter.Address
	Seq() uint64
}

type Status struct {
	Name    string        `json:"name"`
	Engine  meter.Address `json:"engine"`
	Now     uint64        `json:"now"`
	Seq     uint64        `json:"seq"`
	Uptime  string        `json:"uptime"`
	Indexer string        `json:"indexer,omitempty"`
}
