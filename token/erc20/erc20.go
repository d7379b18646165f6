// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package erc20 is a fungible token kept on the shared ledger state.
package erc20

import (
	"context"
	"math/big"

	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/token"
)

var _ token.Fungible = (*Token)(nil)

type Token struct {
	addr     meter.Address
	name     string
	symbol   string
	decimals uint8
	state    *state.State
}

// New deploys a token whose address is derived from its symbol.
func New(name, symbol string, decimals uint8, st *state.State) *Token {
	return &Token{
		addr:     meter.ContractAddress("erc20:" + symbol),
		name:     name,
		symbol:   symbol,
		decimals: decimals,
		state:    st,
	}
}

func (t *Token) Address() meter.Address { return t.addr }
func (t *Token) Name() string           { return t.name }
func (t *Token) Symbol() string         { return t.symbol }
func (t *Token) Decimals() uint8        { return t.decimals }

func (t *Token) SupportsInterface(id token.InterfaceID) bool {
	return id == token.InterfaceIDERC165 || id == token.InterfaceIDERC20
}

func (t *Token) BalanceOf(ctx context.Context, owner meter.Address) (bal *big.Int, err error) {
	t.state.View(ctx, func() {
		bal = t.state.GetBalance(t.addr, owner)
	})
	return
}

func (t *Token) Allowance(ctx context.Context, owner, spender meter.Address) (amount *big.Int, err error) {
	t.state.View(ctx, func() {
		amount = t.state.GetAllowance(t.addr, owner, spender)
	})
	return
}

// Mint creates amount new tokens for to.
func (t *Token) Mint(ctx context.Context, to meter.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return token.ErrNegativeAmount
	}
	if to.IsZero() {
		return token.ErrZeroAddress
	}
	return t.state.Atomic(ctx, func(ctx context.Context) error {
		t.state.AddBalance(t.addr, to, amount)
		return nil
	})
}

// Approve sets the allowance of spender over the owner's tokens.
func (t *Token) Approve(ctx context.Context, owner, spender meter.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return token.ErrNegativeAmount
	}
	if spender.IsZero() {
		return token.ErrZeroAddress
	}
	return t.state.Atomic(ctx, func(ctx context.Context) error {
		t.state.SetAllowance(t.addr, owner, spender, amount)
		return nil
	})
}

// IncreaseAllowance atomically adds to the allowance of spender.
func (t *Token) IncreaseAllowance(ctx context.Context, owner, spender meter.Address, added *big.Int) error {
	if added.Sign() < 0 {
		return token.ErrNegativeAmount
	}
	return t.state.Atomic(ctx, func(ctx context.Context) error {
		cur := t.state.GetAllowance(t.addr, owner, spender)
		t.state.SetAllowance(t.addr, owner, spender, cur.Add(cur, added))
		return nil
	})
}

func (t *Token) Transfer(ctx context.Context, from, to meter.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return token.ErrNegativeAmount
	}
	if to.IsZero() {
		return token.ErrZeroAddress
	}
	return t.state.Atomic(ctx, func(ctx context.Context) error {
		if !t.state.SubBalance(t.addr, from, amount) {
			return token.ErrInsufficientBalance
		}
		t.state.AddBalance(t.addr, to, amount)
		return nil
	})
}

func (t *Token) TransferFrom(ctx context.Context, spender, from, to meter.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return token.ErrNegativeAmount
	}
	return t.state.Atomic(ctx, func(ctx context.Context) error {
		allowance := t.state.GetAllowance(t.addr, from, spender)
		if allowance.Cmp(amount) < 0 {
			return token.ErrInsufficientAllowance
		}
		t.state.SetAllowance(t.addr, from, spender, allowance.Sub(allowance, amount))
		return t.Transfer(ctx, from, to, amount)
	})
}
