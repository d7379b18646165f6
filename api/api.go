// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/accounts"
	"github.com/meterio/meter-auction/api/auction"
	"github.com/meterio/meter-auction/api/events"
	"github.com/meterio/meter-auction/api/node"
	"github.com/meterio/meter-auction/api/subscriptions"
	"github.com/meterio/meter-auction/api/transfers"
	engine "github.com/meterio/meter-auction/auction"
	"github.com/meterio/meter-auction/clock"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/token"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ParseOrigins splits a comma separated origin list.
func ParseOrigins(allowedOrigins string) []string {
	origins := strings.Split(strings.TrimSpace(allowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}
	return origins
}

// New return api router. subs must already be a sink of the engine.
func New(name string, e *engine.Engine, registry *token.Registry, clk clock.Clock, logDB *logdb.LogDB, subs *subscriptions.Subscriptions, allowedOrigins string) (http.HandlerFunc, func()) {
	origins := ParseOrigins(allowedOrigins)

	router := mux.NewRouter()

	router.Path("/metrics").Handler(promhttp.Handler())

	auction.New(e).
		Mount(router, "/auction")
	accounts.New(registry, e.Address()).
		Mount(router, "/accounts")
	events.New(logDB).
		Mount(router, "/logs/event")
	transfers.New(logDB).
		Mount(router, "/logs/transfer")
	node.New(name, e, clk, "sqlite "+logDB.DriverVersion()).
		Mount(router, "/node")
	subs.Mount(router, "/subscriptions")

	return handlers.CORS(
			handlers.AllowedOrigins(origins),
			handlers.AllowedHeaders([]string{"content-type"}))(router).ServeHTTP,
		subs.Close // subscriptions handles hijacked conns, which need to be closed
}
