// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/meterio/meter-auction/auction"
	"github.com/meterio/meter-auction/clock"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/token"
	"github.com/meterio/meter-auction/token/erc20"
	"github.com/meterio/meter-auction/token/erc721"
	"github.com/meterio/meter-auction/token/mock"
	"github.com/meterio/meter-auction/tx"
	"github.com/stretchr/testify/require"
)

const genesisTime = uint64(1700000000)

var (
	owner = meter.BytesToAddress([]byte("owner"))
	acc1  = meter.BytesToAddress([]byte("acc1"))
	acc2  = meter.BytesToAddress([]byte("acc2"))
	acc3  = meter.BytesToAddress([]byte("acc3"))

	assetID1 = uint64(1)
)

type testEnv struct {
	t   *testing.T
	ctx context.Context

	st     *state.State
	clk    *clock.Manual
	erc20  *erc20.Token
	erc721 *erc721.Token
	pay    *mock.Fungible
	assets *mock.NonFungible
	store  *auction.MemStore
	engine *auction.Engine

	startAt uint64
	endAt   uint64
}

// newTestEnv mirrors the hardhat fixture: acc1 owns asset 1 and approved the
// engine, acc2 and acc3 hold 100 tokens each, all approved to the engine.
func newTestEnv(t *testing.T, sink auction.Sink) *testEnv {
	ctx := context.Background()
	st := state.New()
	env := &testEnv{
		t:       t,
		ctx:     ctx,
		st:      st,
		clk:     clock.NewManual(genesisTime),
		erc20:   erc20.New("Meter Stable", "MST", 18, st),
		erc721:  erc721.New("Meter Art", "MART", st),
		store:   auction.NewMemStore(),
		startAt: genesisTime + meter.OneDay,
		endAt:   genesisTime + 10*meter.OneDay,
	}
	env.pay = mock.NewFungible(env.erc20)
	env.assets = mock.NewNonFungible(env.erc721)

	env.engine = auction.New(meter.AuctionAccountAddr, env.store, token.NewRegistry(env.pay, env.assets), env.clk, st, sink)

	require.Nil(t, env.erc721.SafeMint(ctx, acc1, assetID1))
	require.Nil(t, env.erc721.Approve(ctx, acc1, env.engine.Address(), assetID1))
	env.fund(acc2, 100)
	env.fund(acc3, 100)
	return env
}

func (env *testEnv) fund(acc meter.Address, amount int64) {
	require.Nil(env.t, env.erc20.Mint(env.ctx, acc, big.NewInt(amount)))
	require.Nil(env.t, env.erc20.IncreaseAllowance(env.ctx, acc, env.engine.Address(), big.NewInt(amount)))
}

func (env *testEnv) listRequest(assetID uint64, minPrice int64) *auction.ListRequest {
	return &auction.ListRequest{
		AssetID:       assetID,
		PaymentToken:  env.erc20.Address(),
		AssetRegistry: env.erc721.Address(),
		MinPrice:      big.NewInt(minPrice),
		StartTime:     env.startAt,
		EndTime:       env.endAt,
	}
}

func (env *testEnv) list(assetID uint64, minPrice int64) *tx.Receipt {
	r, err := env.engine.ListAsset(env.ctx, acc1, env.listRequest(assetID, minPrice))
	require.Nil(env.t, err)
	return r
}

func (env *testEnv) bid(bidder meter.Address, assetID uint64, amount int64) (*tx.Receipt, error) {
	return env.engine.PlaceBid(env.ctx, bidder, assetID, big.NewInt(amount))
}

func (env *testEnv) balance(acc meter.Address) int64 {
	bal, err := env.erc20.BalanceOf(env.ctx, acc)
	require.Nil(env.t, err)
	return bal.Int64()
}

func (env *testEnv) allowance(acc meter.Address) int64 {
	amount, err := env.erc20.Allowance(env.ctx, acc, env.engine.Address())
	require.Nil(env.t, err)
	return amount.Int64()
}

func (env *testEnv) phase(assetID uint64) auction.Phase {
	p, err := env.engine.Phase(assetID)
	require.Nil(env.t, err)
	return p
}

func (env *testEnv) ownerOf(id uint64) meter.Address {
	o, err := env.erc721.OwnerOf(env.ctx, id)
	require.Nil(env.t, err)
	return o
}

func (env *testEnv) events(r *tx.Receipt) []*auction.Event {
	evs, err := auction.DecodeEvents(r.Events)
	require.Nil(env.t, err)
	return evs
}

func (env *testEnv) listing(assetID uint64) *auction.Listing {
	l, err := env.engine.Listing(assetID)
	require.Nil(env.t, err)
	return l
}

func ev(name string, assetID uint64, actor meter.Address, amount int64, tok meter.Address) *auction.Event {
	e := &auction.Event{Name: name, AssetID: assetID, Actor: actor, Token: tok}
	if amount >= 0 {
		e.Amount = big.NewInt(amount)
	}
	return e
}
