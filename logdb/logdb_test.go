// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb_test

import (
	"context"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	engineAddr = meter.BytesToAddress([]byte("engine"))
	caller     = meter.BytesToAddress([]byte("caller"))
	seller     = meter.BytesToAddress([]byte("seller"))
	tokenAddr  = meter.BytesToAddress([]byte("token"))
	topic0     = meter.BytesToBytes32([]byte("topic0"))
)

func newReceipt(seq uint64, assetID uint64) *tx.Receipt {
	r := tx.NewReceipt(seq, 1000+seq, caller, "placeBid", assetID)
	r.Events = tx.Events{{
		Address: engineAddr,
		Topics:  []meter.Bytes32{topic0, meter.BytesToBytes32(caller.Bytes())},
		Data:    []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 97, 48},
	}}
	r.Transfers = tx.Transfers{{
		Token:     tokenAddr,
		Sender:    caller,
		Recipient: engineAddr,
		Amount:    big.NewInt(int64(seq)),
	}}
	return r
}

func TestEvents(t *testing.T) {
	db, err := logdb.NewMem()
	require.Nil(t, err)
	defer db.Close()

	for i := uint64(1); i <= 100; i++ {
		require.Nil(t, db.Publish(context.Background(), newReceipt(i, i%4)))
	}

	limit := 5
	callerTopic := meter.BytesToBytes32(caller.Bytes())
	es, err := db.FilterEvents(context.Background(), &logdb.EventFilter{
		Range: &logdb.Range{
			Unit: logdb.Seq,
			From: 0,
			To:   10,
		},
		Options: &logdb.Options{
			Offset: 0,
			Limit:  uint64(limit),
		},
		Order: logdb.DESC,
		CriteriaSet: []*logdb.EventCriteria{
			{Address: &seller},
			{Address: &engineAddr, Topics: [5]*meter.Bytes32{&topic0, &callerTopic}},
		},
	})
	require.Nil(t, err)
	require.Len(t, es, limit)
	assert.Equal(t, uint64(10), es[0].Seq)
	assert.Equal(t, uint64(1010), es[0].Time)
	assert.Equal(t, "placeBid", es[0].Op)
	assert.Equal(t, topic0, *es[0].Topics[0])
	assert.Nil(t, es[0].Topics[2])
	assert.Equal(t, tx.Events{newReceipt(10, 2).Events[0]}, tx.Events{es[0].Raw()})

	assetID := uint64(3)
	es, err = db.FilterEvents(context.Background(), &logdb.EventFilter{AssetID: &assetID})
	require.Nil(t, err)
	assert.Len(t, es, 25)

	es, err = db.FilterEvents(context.Background(), &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{Address: &seller}},
	})
	require.Nil(t, err)
	assert.Empty(t, es)

	seq, err := db.LastSeq(context.Background())
	require.Nil(t, err)
	assert.Equal(t, uint64(100), seq)
}

func TestTransfers(t *testing.T) {
	db, err := logdb.New(filepath.Join(t.TempDir(), "logs.db"))
	require.Nil(t, err)
	defer db.Close()

	seq, err := db.LastSeq(context.Background())
	require.Nil(t, err)
	assert.Equal(t, uint64(0), seq)

	count := 100
	for i := 1; i <= count; i++ {
		require.Nil(t, db.Prepare(newReceipt(uint64(i), 1)).Commit())
	}

	ts, err := db.FilterTransfers(context.Background(), &logdb.TransferFilter{
		CriteriaSet: []*logdb.TransferCriteria{
			{Caller: &caller, Recipient: &engineAddr},
			{Sender: &seller},
		},
		Range: &logdb.Range{
			Unit: logdb.Time,
			From: 1000,
			To:   2000,
		},
		Options: &logdb.Options{
			Offset: 0,
			Limit:  uint64(count),
		},
		Order: logdb.DESC,
	})
	require.Nil(t, err)
	require.Len(t, ts, count)
	assert.Equal(t, big.NewInt(100), ts[0].Amount)
	assert.Equal(t, tokenAddr, ts[0].Token)
	assert.False(t, ts[0].NonFungible)

	r := newReceipt(7, 1)
	ts, err = db.FilterTransfers(context.Background(), &logdb.TransferFilter{ReceiptID: &r.ID})
	require.Nil(t, err)
	require.Len(t, ts, 1)
	assert.Equal(t, uint64(7), ts[0].Seq)

	// replaying a receipt does not duplicate it
	require.Nil(t, db.Prepare(r).Commit())
	ts, err = db.FilterTransfers(context.Background(), nil)
	require.Nil(t, err)
	assert.Len(t, ts, count)
}

func TestMatch(t *testing.T) {
	r := newReceipt(7, 3)
	ev := logdb.EventsOf(r)[0]
	tr := logdb.TransfersOf(r)[0]

	assetID, other := uint64(3), uint64(4)
	callerTopic := meter.BytesToBytes32(caller.Bytes())

	assert.True(t, (&logdb.EventFilter{}).Match(ev))
	assert.True(t, (&logdb.EventFilter{AssetID: &assetID}).Match(ev))
	assert.False(t, (&logdb.EventFilter{AssetID: &other}).Match(ev))
	assert.True(t, (&logdb.EventFilter{CriteriaSet: []*logdb.EventCriteria{
		{Address: &seller},
		{Address: &engineAddr, Topics: [5]*meter.Bytes32{nil, &callerTopic}},
	}}).Match(ev))
	assert.False(t, (&logdb.EventFilter{CriteriaSet: []*logdb.EventCriteria{
		{Topics: [5]*meter.Bytes32{nil, nil, &callerTopic}},
	}}).Match(ev))

	assert.Equal(t, uint64(7), tr.Seq)
	assert.True(t, (&logdb.TransferFilter{AssetID: &assetID, CriteriaSet: []*logdb.TransferCriteria{{Sender: &caller}}}).Match(tr))
	assert.False(t, (&logdb.TransferFilter{CriteriaSet: []*logdb.TransferCriteria{{Sender: &seller}}}).Match(tr))
	assert.False(t, (&logdb.TransferFilter{ReceiptID: &callerTopic}).Match(tr))
}
