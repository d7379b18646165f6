// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"context"
	"math/big"

	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/token"
	"github.com/meterio/meter-auction/tx"
)

// env collects the effects of one engine call: custody movements and events.
type env struct {
	ctx    context.Context
	self   meter.Address
	caller meter.Address
	now    uint64

	transfers tx.Transfers
	events    []*Event
}

func newEnv(self, caller meter.Address, now uint64) *env {
	return &env{
		self:   self,
		caller: caller,
		now:    now,
	}
}

func (e *env) addEvent(ev *Event) {
	e.events = append(e.events, ev)
}

func (e *env) addTransfer(token, sender, recipient meter.Address, amount *big.Int, nonFungible bool) {
	e.transfers = append(e.transfers, &tx.Transfer{
		Token:       token,
		Sender:      sender,
		Recipient:   recipient,
		Amount:      new(big.Int).Set(amount),
		NonFungible: nonFungible,
	})
}

// ==================== custody operations ===========================
// from ==> engine
func (e *env) pullAsset(reg token.NonFungible, from meter.Address, id uint64) error {
	if err := reg.TransferFrom(e.ctx, e.self, from, e.self, id); err != nil {
		return err
	}
	e.addTransfer(reg.Address(), from, e.self, new(big.Int).SetUint64(id), true)
	return nil
}

// engine ==> to
func (e *env) pushAsset(reg token.NonFungible, to meter.Address, id uint64) error {
	if err := reg.TransferFrom(e.ctx, e.self, e.self, to, id); err != nil {
		return err
	}
	e.addTransfer(reg.Address(), e.self, to, new(big.Int).SetUint64(id), true)
	return nil
}

// from ==> engine, spends the allowance granted to the engine
func (e *env) pullPayment(tok token.Fungible, from meter.Address, amount *big.Int) error {
	if err := tok.TransferFrom(e.ctx, e.self, from, e.self, amount); err != nil {
		return err
	}
	e.addTransfer(tok.Address(), from, e.self, amount, false)
	return nil
}

// engine ==> to
func (e *env) pushPayment(tok token.Fungible, to meter.Address, amount *big.Int) error {
	if err := tok.Transfer(e.ctx, e.self, to, amount); err != nil {
		return err
	}
	e.addTransfer(tok.Address(), e.self, to, amount, false)
	return nil
}
