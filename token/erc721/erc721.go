// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package erc721 is a non-fungible token kept on the shared ledger state.
package erc721

import (
	"context"

	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/token"
)

var _ token.NonFungible = (*Token)(nil)

type Token struct {
	addr   meter.Address
	name   string
	symbol string
	state  *state.State
}

// New deploys a collection whose address is derived from its symbol.
func New(name, symbol string, st *state.State) *Token {
	return &Token{
		addr:   meter.ContractAddress("erc721:" + symbol),
		name:   name,
		symbol: symbol,
		state:  st,
	}
}

func (t *Token) Address() meter.Address { return t.addr }
func (t *Token) Name() string           { return t.name }
func (t *Token) Symbol() string         { return t.symbol }

func (t *Token) SupportsInterface(id token.InterfaceID) bool {
	return id == token.InterfaceIDERC165 || id == token.InterfaceIDERC721
}

// SafeMint creates token id owned by to.
func (t *Token) SafeMint(ctx context.Context, to meter.Address, id uint64) error {
	if to.IsZero() {
		return token.ErrZeroAddress
	}
	return t.state.Atomic(ctx, func(ctx context.Context) error {
		if _, exists := t.state.GetOwner(t.addr, id); exists {
			return token.ErrAlreadyMinted
		}
		t.state.SetOwner(t.addr, id, to)
		return nil
	})
}

func (t *Token) OwnerOf(ctx context.Context, id uint64) (owner meter.Address, err error) {
	t.state.View(ctx, func() {
		var ok bool
		if owner, ok = t.state.GetOwner(t.addr, id); !ok {
			err = token.ErrUnknownToken
		}
	})
	return
}

func (t *Token) GetApproved(ctx context.Context, id uint64) (spender meter.Address, err error) {
	t.state.View(ctx, func() {
		if _, ok := t.state.GetOwner(t.addr, id); !ok {
			err = token.ErrUnknownToken
			return
		}
		spender = t.state.GetApproved(t.addr, id)
	})
	return
}

// Approve lets spender transfer id; caller must be the owner or an operator of the owner.
func (t *Token) Approve(ctx context.Context, caller, spender meter.Address, id uint64) error {
	return t.state.Atomic(ctx, func(ctx context.Context) error {
		owner, ok := t.state.GetOwner(t.addr, id)
		if !ok {
			return token.ErrUnknownToken
		}
		if caller != owner && !t.state.IsOperator(t.addr, owner, caller) {
			return token.ErrNotOwnerNorApproved
		}
		t.state.SetApproved(t.addr, id, spender)
		return nil
	})
}

func (t *Token) SetApprovalForAll(ctx context.Context, owner, operator meter.Address, approved bool) error {
	return t.state.Atomic(ctx, func(ctx context.Context) error {
		t.state.SetOperator(t.addr, owner, operator, approved)
		return nil
	})
}

func (t *Token) IsApprovedOrOwner(ctx context.Context, spender meter.Address, id uint64) (ok bool, err error) {
	t.state.View(ctx, func() {
		ok, err = t.isApprovedOrOwner(spender, id)
	})
	return
}

func (t *Token) isApprovedOrOwner(spender meter.Address, id uint64) (bool, error) {
	owner, exists := t.state.GetOwner(t.addr, id)
	if !exists {
		return false, token.ErrUnknownToken
	}
	return spender == owner ||
		t.state.GetApproved(t.addr, id) == spender ||
		t.state.IsOperator(t.addr, owner, spender), nil
}

func (t *Token) TransferFrom(ctx context.Context, operator, from, to meter.Address, id uint64) error {
	if to.IsZero() {
		return token.ErrZeroAddress
	}
	return t.state.Atomic(ctx, func(ctx context.Context) error {
		ok, err := t.isApprovedOrOwner(operator, id)
		if err != nil {
			return err
		}
		if !ok {
			return token.ErrNotOwnerNorApproved
		}
		if owner, _ := t.state.GetOwner(t.addr, id); owner != from {
			return token.ErrIncorrectOwner
		}
		t.state.SetApproved(t.addr, id, meter.Address{})
		t.state.SetOwner(t.addr, id, to)
		return nil
	})
}
