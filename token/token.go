// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token defines the contracts the auction engine consumes: a
// non-fungible asset custodian and a fungible payment ledger.
package token

import (
	"context"
	"errors"
	"math/big"
	"sort"
	"sync"

	"github.com/meterio/meter-auction/meter"
)

// InterfaceID is an ERC-165 interface identifier.
type InterfaceID [4]byte

var (
	InterfaceIDERC165 = InterfaceID{0x01, 0xff, 0xc9, 0xa7}
	InterfaceIDERC721 = InterfaceID{0x80, 0xac, 0x58, 0xcd}
	InterfaceIDERC20  = InterfaceID{0x36, 0x37, 0x2b, 0x07}
)

var (
	ErrUnknownToken          = errors.New("invalid token ID")
	ErrAlreadyMinted         = errors.New("token already minted")
	ErrIncorrectOwner        = errors.New("transfer from incorrect owner")
	ErrNotOwnerNorApproved   = errors.New("caller is not token owner nor approved")
	ErrZeroAddress           = errors.New("zero address")
	ErrInsufficientBalance   = errors.New("transfer amount exceeds balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrNegativeAmount        = errors.New("negative amount")
)

// Contract is anything deployed at an address that can answer ERC-165 queries.
type Contract interface {
	Address() meter.Address
	SupportsInterface(id InterfaceID) bool
}

// NonFungible is the asset custodian.
type NonFungible interface {
	Contract
	OwnerOf(ctx context.Context, id uint64) (meter.Address, error)
	IsApprovedOrOwner(ctx context.Context, spender meter.Address, id uint64) (bool, error)
	// TransferFrom moves id from -> to on behalf of operator.
	TransferFrom(ctx context.Context, operator, from, to meter.Address, id uint64) error
}

// Fungible is the payment ledger.
type Fungible interface {
	Contract
	BalanceOf(ctx context.Context, owner meter.Address) (*big.Int, error)
	Allowance(ctx context.Context, owner, spender meter.Address) (*big.Int, error)
	// Transfer moves the sender's own balance.
	Transfer(ctx context.Context, from, to meter.Address, amount *big.Int) error
	// TransferFrom spends an allowance granted by from to spender.
	TransferFrom(ctx context.Context, spender, from, to meter.Address, amount *big.Int) error
}

// Resolver maps contract addresses to deployed contracts.
type Resolver interface {
	Resolve(addr meter.Address) (Contract, bool)
}

// Registry is an in-memory Resolver.
type Registry struct {
	mu        sync.RWMutex
	contracts map[meter.Address]Contract
}

func NewRegistry(contracts ...Contract) *Registry {
	r := &Registry{contracts: make(map[meter.Address]Contract)}
	for _, c := range contracts {
		r.Register(c)
	}
	return r
}

// Register deploys c at its address, replacing whatever was there.
func (r *Registry) Register(c Contract) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contracts[c.Address()] = c
}

func (r *Registry) Resolve(addr meter.Address) (Contract, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.contracts[addr]
	return c, ok
}

// Contracts returns every registered contract ordered by address.
func (r *Registry) Contracts() []Contract {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]Contract, 0, len(r.contracts))
	for _, c := range r.contracts {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i].Address(), list[j].Address()
		return string(a[:]) < string(b[:])
	})
	return list
}
