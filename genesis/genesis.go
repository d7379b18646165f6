// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis describes the token ledger a development node starts from.
package genesis

import (
	"context"
	"fmt"
	"math/big"
	"os"

	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/token"
	"github.com/meterio/meter-auction/token/erc20"
	"github.com/meterio/meter-auction/token/erc721"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Genesis is the initial ledger: fungible payment tokens with their holders,
// and asset collections with their minted assets.
type Genesis struct {
	Name        string       `yaml:"name"`
	LaunchTime  uint64       `yaml:"launchTime"`
	Tokens      []Token      `yaml:"tokens"`
	Collections []Collection `yaml:"collections"`
}

type Token struct {
	Name     string    `yaml:"name"`
	Symbol   string    `yaml:"symbol"`
	Decimals uint8     `yaml:"decimals"`
	Balances []Balance `yaml:"balances"`
}

// Balance funds an account. With ApproveEngine the whole amount is approved
// to the auction engine.
type Balance struct {
	Account       string `yaml:"account"`
	Amount        string `yaml:"amount"`
	ApproveEngine bool   `yaml:"approveEngine"`
}

type Collection struct {
	Name   string  `yaml:"name"`
	Symbol string  `yaml:"symbol"`
	Assets []Asset `yaml:"assets"`
}

// Asset is minted to Owner. With ApproveEngine the engine may take it into custody.
type Asset struct {
	ID            uint64 `yaml:"id"`
	Owner         string `yaml:"owner"`
	ApproveEngine bool   `yaml:"approveEngine"`
}

// Ledger is the result of building a genesis.
type Ledger struct {
	State       *state.State
	Registry    *token.Registry
	Tokens      map[string]*erc20.Token  // by symbol
	Collections map[string]*erc721.Token // by symbol
}

// Load reads a yaml genesis file.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a yaml genesis.
func Parse(data []byte) (*Genesis, error) {
	var gen Genesis
	if err := yaml.UnmarshalStrict(data, &gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if gen.Name == "" {
		return nil, errors.New("genesis: missing name")
	}
	return &gen, nil
}

// Marshal encodes the genesis as yaml.
func (g *Genesis) Marshal() ([]byte, error) {
	return yaml.Marshal(g)
}

// ID identifies the genesis by the hash of its yaml encoding.
func (g *Genesis) ID() meter.Bytes32 {
	data, err := g.Marshal()
	if err != nil {
		panic(err)
	}
	return meter.Blake2b(data)
}

// Build creates the tokens of the genesis on a fresh state, approving engine
// where requested.
func (g *Genesis) Build(ctx context.Context, engine meter.Address) (*Ledger, error) {
	st := state.New()
	ledger := &Ledger{
		State:       st,
		Registry:    token.NewRegistry(),
		Tokens:      make(map[string]*erc20.Token),
		Collections: make(map[string]*erc721.Token),
	}

	for _, def := range g.Tokens {
		if _, dup := ledger.Tokens[def.Symbol]; dup {
			return nil, fmt.Errorf("genesis: duplicate token %v", def.Symbol)
		}
		tok := erc20.New(def.Name, def.Symbol, def.Decimals, st)
		for _, b := range def.Balances {
			acc, err := meter.ParseAddress(b.Account)
			if err != nil {
				return nil, errors.Wrapf(err, "token %v: account %v", def.Symbol, b.Account)
			}
			amount, ok := new(big.Int).SetString(b.Amount, 10)
			if !ok {
				return nil, fmt.Errorf("genesis: token %v: invalid amount %q", def.Symbol, b.Amount)
			}
			if err := tok.Mint(ctx, acc, amount); err != nil {
				return nil, errors.Wrapf(err, "token %v: mint", def.Symbol)
			}
			if b.ApproveEngine {
				if err := tok.IncreaseAllowance(ctx, acc, engine, amount); err != nil {
					return nil, errors.Wrapf(err, "token %v: approve", def.Symbol)
				}
			}
		}
		ledger.Tokens[def.Symbol] = tok
		ledger.Registry.Register(tok)
	}

	for _, def := range g.Collections {
		if _, dup := ledger.Collections[def.Symbol]; dup {
			return nil, fmt.Errorf("genesis: duplicate collection %v", def.Symbol)
		}
		nft := erc721.New(def.Name, def.Symbol, st)
		for _, a := range def.Assets {
			owner, err := meter.ParseAddress(a.Owner)
			if err != nil {
				return nil, errors.Wrapf(err, "collection %v: owner %v", def.Symbol, a.Owner)
			}
			if err := nft.SafeMint(ctx, owner, a.ID); err != nil {
				return nil, errors.Wrapf(err, "collection %v: mint %v", def.Symbol, a.ID)
			}
			if a.ApproveEngine {
				if err := nft.Approve(ctx, owner, engine, a.ID); err != nil {
					return nil, errors.Wrapf(err, "collection %v: approve %v", def.Symbol, a.ID)
				}
			}
		}
		ledger.Collections[def.Symbol] = nft
		ledger.Registry.Register(nft)
	}
	return ledger, nil
}
