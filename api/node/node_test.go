// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/node"
	"github.com/meterio/meter-auction/auction"
	"github.com/meterio/meter-auction/clock"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode(t *testing.T) {
	clk := clock.NewManual(1700000000)
	engine := auction.New(meter.AuctionAccountAddr, auction.NewMemStore(), token.NewRegistry(), clk, state.New(), nil)
	require.NoError(t, engine.ResumeFrom(41))

	router := mux.NewRouter()
	node.New("devnet", engine, clk, "sqlite 3").Mount(router, "/node")
	ts := httptest.NewServer(router)
	defer ts.Close()

	var status node.Status
	require.NoError(t, json.Unmarshal(httpGet(t, ts.URL+"/node/status"), &status))
	assert.Equal(t, "devnet", status.Name)
	assert.Equal(t, meter.AuctionAccountAddr, status.Engine)
	assert.Equal(t, uint64(1700000000), status.Now)
	assert.Equal(t, uint64(41), status.Seq)
	assert.Equal(t, "sqlite 3", status.Indexer)

	clk.Advance(meter.OneDay)
	var now uint64
	require.NoError(t, json.Unmarshal(httpGet(t, ts.URL+"/node/time"), &now))
	assert.Equal(t, 1700000000+meter.OneDay, now)
}

func httpGet(t *testing.T, url string) []byte {
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode, string(r))
	return r
}
