// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auctiondb

import (
	"context"
	"math/big"
	"testing"

	"github.com/meterio/meter-auction/auction"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*Store, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.Nil(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db, 16), db
}

func newListing(assetID uint64, round uint32) *auction.Listing {
	return &auction.Listing{
		AssetID:       assetID,
		Round:         round,
		Seller:        meter.BytesToAddress([]byte("seller")),
		PaymentToken:  meter.BytesToAddress([]byte("token")),
		AssetRegistry: meter.BytesToAddress([]byte("nft")),
		MinPrice:      big.NewInt(10),
		StartTime:     100,
		EndTime:       200,
		ListedAt:      50,
		HighestBid:    new(big.Int),
	}
}

func TestGetPut(t *testing.T) {
	s, db := newStore(t)

	l, err := s.Get(1)
	assert.Nil(t, err)
	assert.Nil(t, l)

	listing := newListing(1, 1)
	bidder := meter.BytesToAddress([]byte("bidder"))
	listing.HighestBid = big.NewInt(42)
	listing.HighestBidder = &bidder
	require.Nil(t, s.Put(listing))

	got, err := s.Get(1)
	require.Nil(t, err)
	assert.Equal(t, listing.String(), got.String())

	// returned copies are detached from the cache
	got.HighestBid.SetInt64(1)
	got, _ = s.Get(1)
	assert.Equal(t, int64(42), got.HighestBid.Int64())

	// a fresh store reads through to leveldb
	got, err = New(db, 16).Get(1)
	require.Nil(t, err)
	assert.Equal(t, listing.String(), got.String())
}

func TestHistoryAndLive(t *testing.T) {
	s, _ := newStore(t)

	for id := uint64(1); id <= 3; id++ {
		require.Nil(t, s.Put(newListing(id, 1)))
	}
	for round := uint32(1); round <= 2; round++ {
		l := newListing(2, round)
		l.Settled = true
		l.Outcome = auction.OutcomeWithdrawn
		require.Nil(t, s.Put(l))
	}

	live, err := s.Live()
	require.Nil(t, err)
	require.Len(t, live, 2)
	assert.Equal(t, uint64(1), live[0].AssetID)
	assert.Equal(t, uint64(3), live[1].AssetID)

	history, err := s.History(2)
	require.Nil(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, uint32(1), history[0].Round)
	assert.Equal(t, uint32(2), history[1].Round)

	history, err = s.History(1)
	require.Nil(t, err)
	assert.Empty(t, history)
}

func TestKeysDoNotCollide(t *testing.T) {
	assert.NotEqual(t, assetKey(listingPrefix, 1), assetKey(historyPrefix, 1))
	assert.Equal(t, 13, len(roundKey(1<<40, 7)))
}

func TestLedger(t *testing.T) {
	store, _ := newStore(t)
	snap, err := store.LoadLedger()
	require.Nil(t, err)
	assert.Nil(t, snap)

	ctx := context.Background()
	st := state.New()
	holder := meter.BytesToAddress([]byte("holder"))
	require.Nil(t, st.Atomic(ctx, func(ctx context.Context) error {
		st.SetBalance(meter.BytesToAddress([]byte("token")), holder, big.NewInt(42))
		return nil
	}))
	require.Nil(t, NewLedgerSink(store, st).Publish(ctx, nil))

	snap, err = store.LoadLedger()
	require.Nil(t, err)
	restored := state.New()
	restored.Restore(snap)
	assert.Equal(t, big.NewInt(42), restored.GetBalance(meter.BytesToAddress([]byte("token")), holder))

	// the snapshot lives outside the listing prefixes
	live, err := store.Live()
	require.Nil(t, err)
	assert.Empty(t, live)
}
