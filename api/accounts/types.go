// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/meterio/meter-auction/meter"
)

// Account for marshal the holdings of an account in one payment token.
type Account struct {
	Token     meter.Address        `json:"token"`
	Balance   math.HexOrDecimal256 `json:"balance"`
	Allowance math.HexOrDecimal256 `json:"allowance"` // granted to the engine
}

type Contract struct {
	Address    meter.Address `json:"address"`
	Name       string        `json:"name,omitempty"`
	Symbol     string        `json:"symbol,omitempty"`
	Interfaces []string      `json:"interfaces"`
}

type Asset struct {
	Registry         meter.Address `json:"registry"`
	ID               uint64        `json:"id"`
	Owner            meter.Address `json:"owner"`
	ApprovedToEngine bool          `json:"approvedToEngine"`
}

// Approval grants the engine either one asset or an amount of a payment token.
type Approval struct {
	Token   meter.Address         `json:"token"`
	AssetID *uint64               `json:"assetId"`
	Amount  *math.HexOrDecimal256 `json:"amount"`
}
