// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/meterio/meter-auction/meter"
)

// DevAccount account for development.
type DevAccount struct {
	Address    meter.Address
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts atomic.Value

// DevAccounts returns pre-alloced accounts for the development node.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
	}
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		addr := crypto.PubkeyToAddress(pk.PublicKey)
		accs = append(accs, DevAccount{meter.Address(addr), pk})
	}
	devAccounts.Store(accs)
	return accs
}

// NewDevnet creates the genesis of a development node: every dev account
// holds 10^24 MST approved to the engine, and the first account owns MART
// assets 1 to 10, all approved to the engine.
func NewDevnet() *Genesis {
	accs := DevAccounts()

	mst := Token{Name: "Meter Stable", Symbol: "MST", Decimals: 18}
	for _, a := range accs {
		mst.Balances = append(mst.Balances, Balance{
			Account:       a.Address.String(),
			Amount:        "1000000000000000000000000",
			ApproveEngine: true,
		})
	}

	mart := Collection{Name: "Meter Art", Symbol: "MART"}
	for id := uint64(1); id <= 10; id++ {
		mart.Assets = append(mart.Assets, Asset{
			ID:            id,
			Owner:         accs[0].Address.String(),
			ApproveEngine: true,
		})
	}

	return &Genesis{
		Name:        "devnet",
		LaunchTime:  1526400000, // 'Wed May 16 2018 00:00:00 GMT+0800 (CST)'
		Tokens:      []Token{mst},
		Collections: []Collection{mart},
	}
}
