// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/events"
	"github.com/meterio/meter-auction/auction"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	engineAddr = meter.BytesToAddress([]byte("engine"))
	bidder     = meter.BytesToAddress([]byte("bidder"))
	payment    = meter.BytesToAddress([]byte("payment"))
)

func TestEvents(t *testing.T) {
	ts := initEventServer(t)
	defer ts.Close()

	bidTopic := auction.EventID(auction.EventBid)
	limit := 5
	filter := &events.EventFilter{
		Range: &logdb.Range{
			Unit: logdb.Seq,
			From: 0,
			To:   100,
		},
		Options: &logdb.Options{
			Offset: 0,
			Limit:  uint64(limit),
		},
		CriteriaSet: []*events.EventCriteria{
			{
				Address:  &engineAddr,
				TopicSet: events.TopicSet{Topic0: &bidTopic},
			},
		},
	}
	var logs []*events.FilteredEvent
	httpPost(t, ts.URL+"/logs/event", filter, &logs)
	require.Equal(t, limit, len(logs), "should be `limit` logs")
	assert.Equal(t, uint64(1), logs[0].Meta.Seq)
	require.NotNil(t, logs[0].Decoded)
	assert.Equal(t, auction.EventBid, logs[0].Decoded.Name)
	assert.Equal(t, bidder, logs[0].Decoded.Actor)

	assetID := uint64(3)
	filter = &events.EventFilter{AssetID: &assetID, Order: logdb.DESC}
	httpPost(t, ts.URL+"/logs/event", filter, &logs)
	require.NotEmpty(t, logs)
	for _, l := range logs {
		assert.Equal(t, assetID, l.Meta.AssetID)
	}
	assert.True(t, logs[0].Meta.Seq > logs[len(logs)-1].Meta.Seq)
}

func TestEventsBadFilter(t *testing.T) {
	ts := initEventServer(t)
	defer ts.Close()

	res, err := http.Post(ts.URL+"/logs/event", "application/json", bytes.NewReader([]byte(`{"unknown":1}`)))
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func initEventServer(t *testing.T) *httptest.Server {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(db.Close)

	for i := 0; i < 100; i++ {
		assetID := uint64(i % 10)
		ev, err := (&auction.Event{
			Name:    auction.EventBid,
			AssetID: assetID,
			Actor:   bidder,
			Amount:  big.NewInt(int64(i + 1)),
			Token:   payment,
		}).Encode(engineAddr)
		require.NoError(t, err)
		r := tx.NewReceipt(uint64(i+1), uint64(1000+i), bidder, auction.OpPlaceBid, assetID)
		r.Events = tx.Events{ev}
		require.NoError(t, db.Prepare(r).Commit())
	}

	router := mux.NewRouter()
	events.New(db).Mount(router, "/logs/event")
	return httptest.NewServer(router)
}

func httpPost(t *testing.T, url string, body interface{}, out interface{}) {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode, string(r))
	require.NoError(t, json.Unmarshal(r, out))
}
