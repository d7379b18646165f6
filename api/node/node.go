// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/clock"
	"github.com/meterio/meter-auction/meter"
)

type Node struct {
	name    string
	engine  Engine
	clock   clock.Clock
	indexer string
	started time.Time
}

// New creates the node status handlers. indexer names the log index driver, if any.
func New(name string, engine Engine, clk clock.Clock, indexer string) *Node {
	return &Node{
		name:    name,
		engine:  engine,
		clock:   clk,
		indexer: indexer,
		started: time.Now(),
	}
}

func (n *Node) handleStatus(w http.ResponseWriter, req *http.Request) error {
	return utils.WriteJSON(w, &Status{
		Name:    n.name,
		Engine:  n.engine.Address(),
		Now:     n.clock.Now(),
		Seq:     n.engine.Seq(),
		Uptime:  meter.PrettyDuration(time.Since(n.started)).String(),
		Indexer: n.indexer,
	})
}

func (n *Node) handleTime(w http.ResponseWriter, req *http.Request) error {
	return utils.WriteJSON(w, n.clock.Now())
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/status").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(n.handleStatus))
	sub.Path("/time").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(n.handleTime))
}
