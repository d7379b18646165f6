// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/meterio/meter-auction/api/events"
	"github.com/meterio/meter-auction/api/transfers"
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

func newReceipt(t *testing.T, seq uint64, assetID uint64) *tx.Receipt {
	ev, err := (&auction.Event{
		Name:    auction.EventBid,
		AssetID: assetID,
		Actor:   bidder,
		Amount:  big.NewInt(int64(seq)),
		Token:   payment,
	}).Encode(engineAddr)
	require.NoError(t, err)
	r := tx.NewReceipt(seq, 1000+seq, bidder, auction.OpPlaceBid, assetID)
	r.Events = tx.Events{ev}
	r.Transfers = tx.Transfers{{
		Token:     payment,
		Sender:    bidder,
		Recipient: engineAddr,
		Amount:    big.NewInt(int64(seq)),
	}}
	return r
}

type testServer struct {
	db   *logdb.LogDB
	subs *Subscriptions
	ts   *httptest.Server
	sink auction.Sinks
}

func newTestServer(t *testing.T) *testServer {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	subs := New(db, []string{"http://localhost"})
	router := mux.NewRouter()
	subs.Mount(router, "/subscriptions")
	return &testServer{
		db:   db,
		subs: subs,
		ts:   httptest.NewServer(router),
		sink: auction.Sinks{db, subs},
	}
}

func (s *testServer) close() {
	s.subs.Close()
	s.ts.Close()
	s.db.Close()
}

func (s *testServer) dial(t *testing.T, path string) *websocket.Conn {
	u := "ws" + strings.TrimPrefix(s.ts.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	return conn
}

func TestEventSubscription(t *testing.T) {
	defer leaktest.Check(t)()
	s := newTestServer(t)
	defer s.close()

	ctx := context.Background()
	for seq := uint64(1); seq <= 4; seq++ {
		require.NoError(t, s.sink.Publish(ctx, newReceipt(t, seq, seq%2)))
	}

	conn := s.dial(t, "/subscriptions/event?assetId=1&pos=0")
	defer conn.Close()

	var ev events.FilteredEvent
	for _, seq := range []uint64{1, 3} {
		require.NoError(t, conn.ReadJSON(&ev))
		assert.Equal(t, seq, ev.Meta.Seq)
		assert.Equal(t, uint64(1), ev.Decoded.AssetID)
	}

	// replayed receipts are not sent twice
	require.NoError(t, s.subs.Publish(ctx, newReceipt(t, 3, 1)))
	require.NoError(t, s.sink.Publish(ctx, newReceipt(t, 6, 0)))
	require.NoError(t, s.sink.Publish(ctx, newReceipt(t, 7, 1)))

	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, uint64(7), ev.Meta.Seq)
	assert.Equal(t, bidder, ev.Decoded.Actor)
}

func TestTransferSubscription(t *testing.T) {
	defer leaktest.Check(t)()
	s := newTestServer(t)
	defer s.close()

	conn := s.dial(t, "/subscriptions/transfer?sender="+bidder.String())
	defer conn.Close()

	require.NoError(t, s.sink.Publish(context.Background(), newReceipt(t, 1, 5)))

	var tr transfers.FilteredTransfer
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.ReadJSON(&tr))
	assert.Equal(t, uint64(5), tr.Meta.AssetID)
	assert.Equal(t, engineAddr, tr.Recipient)
	assert.Equal(t, big.NewInt(1), (*big.Int)(tr.Amount))
}

func TestBadSubject(t *testing.T) {
	s := newTestServer(t)
	defer s.close()

	res, err := http.Get(s.ts.URL + "/subscriptions/block")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, err = http.Get(s.ts.URL + "/subscriptions/event?assetId=x")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, 0, s.subs.size())
}

func TestSlowSubscriberDropped(t *testing.T) {
	s := New(nil, nil)
	sub := s.subscribe()
	for i := 0; i <= queueSize; i++ {
		require.NoError(t, s.Publish(context.Background(), &tx.Receipt{Seq: uint64(i + 1)}))
	}
	assert.Equal(t, 0, s.size())

	n := 0
	for range sub.queue {
		n++
	}
	assert.Equal(t, queueSize, n)
	s.unsubscribe(sub)
}
