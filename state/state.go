// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"context"
	"math/big"
	"sync"

	"github.com/meterio/meter-auction/meter"
)

type balanceKey struct {
	token meter.Address
	owner meter.Address
}

type allowanceKey struct {
	token   meter.Address
	owner   meter.Address
	spender meter.Address
}

type assetKey struct {
	token meter.Address
	id    uint64
}

type operatorKey struct {
	token    meter.Address
	owner    meter.Address
	operator meter.Address
}

type txKey struct{}

// State is the token ledger shared by the reference token contracts.
// Every mutation is journaled so a call can be reverted to a checkpoint.
type State struct {
	mu sync.RWMutex

	balances   map[balanceKey]*big.Int
	allowances map[allowanceKey]*big.Int
	owners     map[assetKey]meter.Address
	approvals  map[assetKey]meter.Address
	operators  map[operatorKey]bool

	journal []func() // undo entries, newest last
}

// New create an empty state object.
func New() *State {
	return &State{
		balances:   make(map[balanceKey]*big.Int),
		allowances: make(map[allowanceKey]*big.Int),
		owners:     make(map[assetKey]meter.Address),
		approvals:  make(map[assetKey]meter.Address),
		operators:  make(map[operatorKey]bool),
	}
}

// Atomic runs fn with exclusive access to the state. If fn fails, every change
// it made is reverted. Nested calls sharing the context join the outer call.
func (s *State) Atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		checkpoint := s.NewCheckpoint()
		if err := fn(ctx); err != nil {
			s.RevertTo(checkpoint)
			return err
		}
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	checkpoint := s.NewCheckpoint()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.RevertTo(checkpoint)
		return err
	}
	// committed, nothing left to undo
	s.journal = s.journal[:0]
	return nil
}

// View runs fn with shared access to the state.
func (s *State) View(ctx context.Context, fn func()) {
	if s.inTx(ctx) {
		fn()
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

func (s *State) inTx(ctx context.Context) bool {
	st, _ := ctx.Value(txKey{}).(*State)
	return st == s
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return len(s.journal)
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	for len(s.journal) > revision {
		undo := s.journal[len(s.journal)-1]
		s.journal = s.journal[:len(s.journal)-1]
		undo()
	}
}

// GetBalance returns balance for the given token and owner.
func (s *State) GetBalance(token, owner meter.Address) *big.Int {
	if v, ok := s.balances[balanceKey{token, owner}]; ok {
		return new(big.Int).Set(v)
	}
	return new(big.Int)
}

// SetBalance set balance for the given token and owner.
func (s *State) SetBalance(token, owner meter.Address, balance *big.Int) {
	key := balanceKey{token, owner}
	prev, existed := s.balances[key]
	s.journal = append(s.journal, func() {
		if existed {
			s.balances[key] = prev
		} else {
			delete(s.balances, key)
		}
	})
	s.balances[key] = new(big.Int).Set(balance)
}

// AddBalance add amount of balance to given address.
func (s *State) AddBalance(token, owner meter.Address, amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}
	bal := s.GetBalance(token, owner)
	s.SetBalance(token, owner, bal.Add(bal, amount))
}

// SubBalance stub.
func (s *State) SubBalance(token, owner meter.Address, amount *big.Int) bool {
	if amount.Sign() == 0 {
		return true
	}
	bal := s.GetBalance(token, owner)
	if bal.Cmp(amount) < 0 {
		return false
	}
	s.SetBalance(token, owner, bal.Sub(bal, amount))
	return true
}

// GetAllowance returns how much spender may move on behalf of owner.
func (s *State) GetAllowance(token, owner, spender meter.Address) *big.Int {
	if v, ok := s.allowances[allowanceKey{token, owner, spender}]; ok {
		return new(big.Int).Set(v)
	}
	return new(big.Int)
}

func (s *State) SetAllowance(token, owner, spender meter.Address, amount *big.Int) {
	key := allowanceKey{token, owner, spender}
	prev, existed := s.allowances[key]
	s.journal = append(s.journal, func() {
		if existed {
			s.allowances[key] = prev
		} else {
			delete(s.allowances, key)
		}
	})
	s.allowances[key] = new(big.Int).Set(amount)
}

// GetOwner returns the owner of a non-fungible token and whether it exists.
func (s *State) GetOwner(token meter.Address, id uint64) (meter.Address, bool) {
	owner, ok := s.owners[assetKey{token, id}]
	return owner, ok
}

func (s *State) SetOwner(token meter.Address, id uint64, owner meter.Address) {
	key := assetKey{token, id}
	prev, existed := s.owners[key]
	s.journal = append(s.journal, func() {
		if existed {
			s.owners[key] = prev
		} else {
			delete(s.owners, key)
		}
	})
	s.owners[key] = owner
}

// GetApproved returns the single-token approval, zero address if none.
func (s *State) GetApproved(token meter.Address, id uint64) meter.Address {
	return s.approvals[assetKey{token, id}]
}

func (s *State) SetApproved(token meter.Address, id uint64, spender meter.Address) {
	key := assetKey{token, id}
	prev, existed := s.approvals[key]
	s.journal = append(s.journal, func() {
		if existed {
			s.approvals[key] = prev
		} else {
			delete(s.approvals, key)
		}
	})
	if spender.IsZero() {
		delete(s.approvals, key)
		return
	}
	s.approvals[key] = spender
}

func (s *State) IsOperator(token, owner, operator meter.Address) bool {
	return s.operators[operatorKey{token, owner, operator}]
}

func (s *State) SetOperator(token, owner, operator meter.Address, approved bool) {
	key := operatorKey{token, owner, operator}
	prev := s.operators[key]
	s.journal = append(s.journal, func() {
		if prev {
			s.operators[key] = true
		} else {
			delete(s.operators, key)
		}
	})
	if approved {
		s.operators[key] = true
	} else {
		delete(s.operators, key)
	}
}
