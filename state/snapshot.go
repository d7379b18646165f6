// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"context"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
)

type BalanceEntry struct {
	Token   meter.Address
	Owner   meter.Address
	Balance *big.Int
}

type AllowanceEntry struct {
	Token   meter.Address
	Owner   meter.Address
	Spender meter.Address
	Amount  *big.Int
}

type OwnerEntry struct {
	Token meter.Address
	ID    uint64
	Owner meter.Address
}

type ApprovalEntry struct {
	Token   meter.Address
	ID      uint64
	Spender meter.Address
}

type OperatorEntry struct {
	Token    meter.Address
	Owner    meter.Address
	Operator meter.Address
}

// Snapshot is the committed content of a State, entries sorted so that
// equal states encode to equal bytes.
type Snapshot struct {
	Balances   []BalanceEntry
	Allowances []AllowanceEntry
	Owners     []OwnerEntry
	Approvals  []ApprovalEntry
	Operators  []OperatorEntry
}

func less(a, b meter.Address) int { return bytes.Compare(a[:], b[:]) }

// Snapshot copies the state. It must not be called from within Atomic.
func (s *State) Snapshot(ctx context.Context) *Snapshot {
	snap := &Snapshot{}
	s.View(ctx, func() {
		for k, v := range s.balances {
			snap.Balances = append(snap.Balances, BalanceEntry{k.token, k.owner, new(big.Int).Set(v)})
		}
		for k, v := range s.allowances {
			snap.Allowances = append(snap.Allowances, AllowanceEntry{k.token, k.owner, k.spender, new(big.Int).Set(v)})
		}
		for k, v := range s.owners {
			snap.Owners = append(snap.Owners, OwnerEntry{k.token, k.id, v})
		}
		for k, v := range s.approvals {
			snap.Approvals = append(snap.Approvals, ApprovalEntry{k.token, k.id, v})
		}
		for k := range s.operators {
			snap.Operators = append(snap.Operators, OperatorEntry{k.token, k.owner, k.operator})
		}
	})

	sort.Slice(snap.Balances, func(i, j int) bool {
		a, b := snap.Balances[i], snap.Balances[j]
		if c := less(a.Token, b.Token); c != 0 {
			return c < 0
		}
		return less(a.Owner, b.Owner) < 0
	})
	sort.Slice(snap.Allowances, func(i, j int) bool {
		a, b := snap.Allowances[i], snap.Allowances[j]
		if c := less(a.Token, b.Token); c != 0 {
			return c < 0
		}
		if c := less(a.Owner, b.Owner); c != 0 {
			return c < 0
		}
		return less(a.Spender, b.Spender) < 0
	})
	sort.Slice(snap.Owners, func(i, j int) bool {
		a, b := snap.Owners[i], snap.Owners[j]
		if c := less(a.Token, b.Token); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
	sort.Slice(snap.Approvals, func(i, j int) bool {
		a, b := snap.Approvals[i], snap.Approvals[j]
		if c := less(a.Token, b.Token); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
	sort.Slice(snap.Operators, func(i, j int) bool {
		a, b := snap.Operators[i], snap.Operators[j]
		if c := less(a.Token, b.Token); c != 0 {
			return c < 0
		}
		if c := less(a.Owner, b.Owner); c != 0 {
			return c < 0
		}
		return less(a.Operator, b.Operator) < 0
	})
	return snap
}

// Restore replaces the whole content of the state by snap.
func (s *State) Restore(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.balances = make(map[balanceKey]*big.Int, len(snap.Balances))
	for _, e := range snap.Balances {
		s.balances[balanceKey{e.Token, e.Owner}] = new(big.Int).Set(e.Balance)
	}
	s.allowances = make(map[allowanceKey]*big.Int, len(snap.Allowances))
	for _, e := range snap.Allowances {
		s.allowances[allowanceKey{e.Token, e.Owner, e.Spender}] = new(big.Int).Set(e.Amount)
	}
	s.owners = make(map[assetKey]meter.Address, len(snap.Owners))
	for _, e := range snap.Owners {
		s.owners[assetKey{e.Token, e.ID}] = e.Owner
	}
	s.approvals = make(map[assetKey]meter.Address, len(snap.Approvals))
	for _, e := range snap.Approvals {
		s.approvals[assetKey{e.Token, e.ID}] = e.Spender
	}
	s.operators = make(map[operatorKey]bool, len(snap.Operators))
	for _, e := range snap.Operators {
		s.operators[operatorKey{e.Token, e.Owner, e.Operator}] = true
	}
	s.journal = s.journal[:0]
}

// Encode returns the RLP encoding of the snapshot.
func (snap *Snapshot) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(snap)
}

func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := rlp.DecodeBytes(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
