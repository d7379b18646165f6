// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"math/big"

	"github.com/meterio/meter-auction/meter"
)

// Transfer token transfer log.
// For non-fungible tokens Amount carries the token id.
type Transfer struct {
	Token       meter.Address
	Sender      meter.Address
	Recipient   meter.Address
	Amount      *big.Int
	NonFungible bool
}

// Transfers slisce of transfer logs.
type Transfers []*Transfer
