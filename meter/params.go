// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

import (
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	// 0x74696f6e2d6163636f756e742d61646472657373
	AuctionAccountAddr = BytesToAddress([]byte("auction-account-address"))
)

const (
	OneDay = uint64(24 * 60 * 60)
)

// ContractAddress derives a deterministic contract address from a seed, the way
// the development ledger names its token contracts.
func ContractAddress(seed string) Address {
	return BytesToAddress(crypto.Keccak256([]byte(seed))[12:])
}
