// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package mock wraps token contracts with controllable failures for tests.
package mock

import (
	"context"
	"math/big"
	"sync"

	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/token"
)

// Contract answers ERC-165 queries and nothing else.
type Contract struct {
	addr meter.Address
	ids  []token.InterfaceID
}

func NewContract(addr meter.Address, ids ...token.InterfaceID) *Contract {
	return &Contract{addr: addr, ids: ids}
}

func (c *Contract) Address() meter.Address { return c.addr }

func (c *Contract) SupportsInterface(id token.InterfaceID) bool {
	for _, supported := range c.ids {
		if supported == id {
			return true
		}
	}
	return false
}

// Fungible implements token.Fungible on top of a real token and can be told
// to reject transfers to or from specific accounts.
type Fungible struct {
	token.Fungible

	mu       sync.Mutex
	failTo   map[meter.Address]error
	failFrom map[meter.Address]error
}

func NewFungible(inner token.Fungible) *Fungible {
	return &Fungible{
		Fungible: inner,
		failTo:   make(map[meter.Address]error),
		failFrom: make(map[meter.Address]error),
	}
}

// FailTransferTo makes every payment credited to addr fail with err.
func (m *Fungible) FailTransferTo(addr meter.Address, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failTo[addr] = err
}

// FailTransferFrom makes every payment debited from addr fail with err.
func (m *Fungible) FailTransferFrom(addr meter.Address, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failFrom[addr] = err
}

// Reset clears all injected failures.
func (m *Fungible) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failTo = make(map[meter.Address]error)
	m.failFrom = make(map[meter.Address]error)
}

func (m *Fungible) injected(from, to meter.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failFrom[from]; ok {
		return err
	}
	if err, ok := m.failTo[to]; ok {
		return err
	}
	return nil
}

func (m *Fungible) Transfer(ctx context.Context, from, to meter.Address, amount *big.Int) error {
	if err := m.injected(from, to); err != nil {
		return err
	}
	return m.Fungible.Transfer(ctx, from, to, amount)
}

func (m *Fungible) TransferFrom(ctx context.Context, spender, from, to meter.Address, amount *big.Int) error {
	if err := m.injected(from, to); err != nil {
		return err
	}
	return m.Fungible.TransferFrom(ctx, spender, from, to, amount)
}

// NonFungible implements token.NonFungible on top of a real collection and can
// be told to reject transfers to specific accounts.
type NonFungible struct {
	token.NonFungible

	mu     sync.Mutex
	failTo map[meter.Address]error
}

func NewNonFungible(inner token.NonFungible) *NonFungible {
	return &NonFungible{
		NonFungible: inner,
		failTo:      make(map[meter.Address]error),
	}
}

// FailTransferTo makes every transfer to addr fail with err.
func (m *NonFungible) FailTransferTo(addr meter.Address, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failTo[addr] = err
}

func (m *NonFungible) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failTo = make(map[meter.Address]error)
}

func (m *NonFungible) TransferFrom(ctx context.Context, operator, from, to meter.Address, id uint64) error {
	m.mu.Lock()
	err, ok := m.failTo[to]
	m.mu.Unlock()
	if ok {
		return err
	}
	return m.NonFungible.TransferFrom(ctx, operator, from, to, id)
}
