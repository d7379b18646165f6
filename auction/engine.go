// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"context"
	"log/slog"
	"math/big"
	"sync/atomic"
	"time"

	"github.com/meterio/meter-auction/clock"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/token"
	"github.com/meterio/meter-auction/tx"
	"github.com/pkg/errors"
)

// call names, as recorded in receipts
const (
	OpListAsset     = "listAsset"
	OpPlaceBid      = "placeBid"
	OpFinishAuction = "finishAuction"
)

// Journal runs fn so that either all of its ledger effects persist or none do.
// state.State implements it.
type Journal interface {
	Atomic(ctx context.Context, fn func(ctx context.Context) error) error
}

// Engine runs escrowed English auctions, one state machine per asset id.
type Engine struct {
	addr      meter.Address
	store     Store
	contracts token.Resolver
	clock     clock.Clock
	journal   Journal
	sink      Sink

	locks  *locker
	seq    atomic.Uint64
	logger *slog.Logger
}

// New creates an engine holding escrow at addr. Every call runs inside journal,
// which must cover the ledgers behind contracts. sink may be nil.
func New(addr meter.Address, store Store, contracts token.Resolver, clk clock.Clock, journal Journal, sink Sink) *Engine {
	if journal == nil {
		panic("auction: nil journal")
	}
	return &Engine{
		addr:      addr,
		store:     store,
		contracts: contracts,
		clock:     clk,
		journal:   journal,
		sink:      sink,
		locks:     newLocker(),
		logger:    slog.Default().With("pkg", "auction"),
	}
}

// Address returns the escrow account of the engine.
func (e *Engine) Address() meter.Address { return e.addr }

// ResumeFrom continues receipt numbering after seq and refreshes the live
// listing gauge from the store.
func (e *Engine) ResumeFrom(seq uint64) error {
	e.seq.Store(seq)
	live, err := e.store.Live()
	if err != nil {
		return errors.Wrap(err, "load live listings")
	}
	liveListingsGauge.Set(float64(len(live)))
	return nil
}

// Seq returns the sequence number of the last receipt.
func (e *Engine) Seq() uint64 { return e.seq.Load() }

// ListAsset takes the asset into custody and opens a listing for it.
func (e *Engine) ListAsset(ctx context.Context, caller meter.Address, req *ListRequest) (*tx.Receipt, error) {
	return e.call(ctx, OpListAsset, caller, req.AssetID, func(env *env, cur *Listing) (*Listing, error) {
		if req.StartTime <= env.now {
			return nil, errFutureStartOnly
		}
		if req.EndTime <= req.StartTime {
			return nil, errEndsAfterStartsOnly
		}
		registry, err := e.nonFungible(req.AssetRegistry)
		if err != nil {
			return nil, err
		}
		if _, err := e.fungible(req.PaymentToken); err != nil {
			return nil, err
		}
		if req.MinPrice == nil || req.MinPrice.Sign() < 0 {
			return nil, errInvalidMinPrice
		}
		if err := checkListPhase(PhaseAt(cur, env.now)); err != nil {
			return nil, err
		}
		owner, err := registry.OwnerOf(env.ctx, req.AssetID)
		if err != nil {
			return nil, &Error{Kind: KindNotAuthorized, Reason: errOnlyOwner.Reason, Err: err}
		}
		if owner != env.caller {
			return nil, errOnlyOwner
		}

		if err := env.pullAsset(registry, owner, req.AssetID); err != nil {
			return nil, transferFailure("asset custody failed", err)
		}

		round := uint32(1)
		if cur != nil {
			round = cur.Round + 1
		}
		next := &Listing{
			AssetID:       req.AssetID,
			Round:         round,
			Seller:        owner,
			PaymentToken:  req.PaymentToken,
			AssetRegistry: req.AssetRegistry,
			MinPrice:      new(big.Int).Set(req.MinPrice),
			StartTime:     req.StartTime,
			EndTime:       req.EndTime,
			ListedAt:      env.now,
			HighestBid:    new(big.Int),
		}
		env.addEvent(&Event{Name: EventAssetReceived, AssetID: req.AssetID, Actor: owner, Token: req.AssetRegistry})
		env.addEvent(&Event{Name: EventAssetListed, AssetID: req.AssetID, Actor: owner, Amount: next.MinPrice, Token: req.PaymentToken})
		return next, nil
	})
}

// PlaceBid escrows amount from caller and refunds the bid it displaces.
func (e *Engine) PlaceBid(ctx context.Context, caller meter.Address, assetID uint64, amount *big.Int) (*tx.Receipt, error) {
	return e.call(ctx, OpPlaceBid, caller, assetID, func(env *env, cur *Listing) (*Listing, error) {
		if err := checkBidPhase(PhaseAt(cur, env.now)); err != nil {
			return nil, err
		}
		if amount == nil || amount.Sign() < 0 {
			return nil, errInvalidAmount
		}
		if cur.HasBid() {
			if amount.Cmp(cur.HighestBid) <= 0 {
				return nil, errLastBidHigher
			}
		} else if amount.Cmp(cur.MinPrice) < 0 {
			return nil, errMinBidHigher
		}

		payment, err := e.fungible(cur.PaymentToken)
		if err != nil {
			return nil, transferFailure("payment token unavailable", err)
		}
		if err := env.pullPayment(payment, env.caller, amount); err != nil {
			return nil, transferFailure("bid escrow failed", err)
		}

		next := cur.Copy()
		if cur.HasBid() {
			if err := env.pushPayment(payment, *cur.HighestBidder, cur.HighestBid); err != nil {
				return nil, transferFailure("bid refund failed", err)
			}
			env.addEvent(&Event{Name: EventBidReturn, AssetID: assetID, Actor: *cur.HighestBidder, Amount: cur.HighestBid, Token: cur.PaymentToken})
		}
		bidder := env.caller
		next.HighestBid = new(big.Int).Set(amount)
		next.HighestBidder = &bidder
		env.addEvent(&Event{Name: EventBid, AssetID: assetID, Actor: bidder, Amount: next.HighestBid, Token: cur.PaymentToken})
		return next, nil
	})
}

// FinishAuction settles an ended auction. Anyone may call it.
func (e *Engine) FinishAuction(ctx context.Context, caller meter.Address, assetID uint64) (*tx.Receipt, error) {
	return e.call(ctx, OpFinishAuction, caller, assetID, func(env *env, cur *Listing) (*Listing, error) {
		if err := checkFinishPhase(PhaseAt(cur, env.now)); err != nil {
			return nil, err
		}
		registry, err := e.nonFungible(cur.AssetRegistry)
		if err != nil {
			return nil, transferFailure("asset registry unavailable", err)
		}

		next := cur.Copy()
		next.Settled = true
		next.SettledAt = env.now

		if !cur.HasBid() {
			if err := env.pushAsset(registry, cur.Seller, assetID); err != nil {
				return nil, transferFailure("asset return failed", err)
			}
			next.Outcome = OutcomeWithdrawn
			env.addEvent(&Event{Name: EventWithdraw, AssetID: assetID, Actor: cur.Seller})
			return next, nil
		}

		payment, err := e.fungible(cur.PaymentToken)
		if err != nil {
			return nil, transferFailure("payment token unavailable", err)
		}
		buyer := *cur.HighestBidder
		if err := env.pushAsset(registry, buyer, assetID); err != nil {
			return nil, transferFailure("asset delivery failed", err)
		}
		if err := env.pushPayment(payment, cur.Seller, cur.HighestBid); err != nil {
			return nil, transferFailure("seller payment failed", err)
		}
		next.Outcome = OutcomeSale
		env.addEvent(&Event{Name: EventSale, AssetID: assetID, Actor: buyer, Amount: cur.HighestBid, Token: cur.PaymentToken})
		return next, nil
	})
}

// Listing returns the current record of the asset, live or last settled.
func (e *Engine) Listing(assetID uint64) (*Listing, error) {
	l, err := e.store.Get(assetID)
	if err != nil {
		return nil, errors.Wrapf(err, "load listing %v", assetID)
	}
	if l == nil {
		return nil, errNonListedAsset
	}
	return l, nil
}

// Phase returns the phase of the asset at the engine's current time.
func (e *Engine) Phase(assetID uint64) (Phase, error) {
	l, err := e.store.Get(assetID)
	if err != nil {
		return PhaseUnlisted, errors.Wrapf(err, "load listing %v", assetID)
	}
	return PhaseAt(l, e.clock.Now()), nil
}

// Listings returns every listing that is not settled yet.
func (e *Engine) Listings() ([]*Listing, error) {
	return e.store.Live()
}

// History returns the settled rounds of the asset, oldest first.
func (e *Engine) History(assetID uint64) ([]*Listing, error) {
	return e.store.History(assetID)
}

type callFunc func(env *env, cur *Listing) (*Listing, error)

func (e *Engine) call(ctx context.Context, op string, caller meter.Address, assetID uint64, fn callFunc) (*tx.Receipt, error) {
	start := time.Now()

	e.locks.Lock(assetID)
	defer e.locks.Unlock(assetID)

	now := e.clock.Now()
	cur, err := e.store.Get(assetID)
	if err != nil {
		return nil, errors.Wrapf(err, "load listing %v", assetID)
	}

	env := newEnv(e.addr, caller, now)
	var events tx.Events
	err = e.journal.Atomic(ctx, func(ctx context.Context) error {
		env.ctx = ctx
		next, err := fn(env, cur)
		if err != nil {
			return err
		}
		for _, ev := range env.events {
			raw, err := ev.Encode(e.addr)
			if err != nil {
				return errors.Wrapf(err, "encode %v", ev.Name)
			}
			events = append(events, raw)
		}
		// last step, nothing below may fail
		return errors.Wrapf(e.store.Put(next), "store listing %v", assetID)
	})
	callDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		rejectionsCounter.WithLabelValues(op, KindOf(err).String()).Inc()
		e.logger.Debug("call rejected", "op", op, "asset", assetID, "caller", caller, "err", err.Error())
		return nil, err
	}

	receipt := tx.NewReceipt(e.seq.Add(1), now, caller, op, assetID)
	receipt.Events = events
	receipt.Transfers = env.transfers
	e.observe(env.events)
	e.logger.Info("call committed", "op", op, "asset", assetID, "caller", caller,
		"seq", receipt.Seq, "events", len(events), "elapsed", meter.PrettyDuration(time.Since(start)))

	if e.sink != nil {
		if err := e.sink.Publish(ctx, receipt); err != nil {
			e.logger.Warn("publish receipt failed", "seq", receipt.Seq, "err", err.Error())
		}
	}
	return receipt, nil
}

func (e *Engine) observe(events []*Event) {
	for _, ev := range events {
		switch ev.Name {
		case EventAssetListed:
			listingsCounter.Inc()
			liveListingsGauge.Inc()
		case EventBid:
			bidsCounter.Inc()
		case EventBidReturn:
			refundsCounter.Inc()
		case EventSale:
			settlementsCounter.WithLabelValues(OutcomeSale.String()).Inc()
			liveListingsGauge.Dec()
		case EventWithdraw:
			settlementsCounter.WithLabelValues(OutcomeWithdrawn.String()).Inc()
			liveListingsGauge.Dec()
		}
	}
}

func (e *Engine) nonFungible(addr meter.Address) (token.NonFungible, error) {
	c, ok := e.contracts.Resolve(addr)
	if !ok || !c.SupportsInterface(token.InterfaceIDERC721) {
		return nil, errNotERC721
	}
	nft, ok := c.(token.NonFungible)
	if !ok {
		return nil, errNotERC721
	}
	return nft, nil
}

func (e *Engine) fungible(addr meter.Address) (token.Fungible, error) {
	c, ok := e.contracts.Resolve(addr)
	if !ok {
		return nil, errNotERC20
	}
	ft, ok := c.(token.Fungible)
	if !ok {
		return nil, errNotERC20
	}
	return ft, nil
}
