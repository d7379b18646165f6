// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/meterio/meter-auction/meter"
	"github.com/stretchr/testify/assert"
)

func TestParseAddress(t *testing.T) {
	addr, err := meter.ParseAddress("0x8a88c59bf15451f9deb1d62f7734fece2002668e")
	assert.Nil(t, err)
	assert.Equal(t, "0x8a88c59bf15451f9deb1d62f7734fece2002668e", addr.String())

	_, err = meter.ParseAddress("0x8a88")
	assert.NotNil(t, err)

	_, err = meter.ParseAddress("zz8a88c59bf15451f9deb1d62f7734fece2002668e")
	assert.NotNil(t, err)

	assert.True(t, meter.Address{}.IsZero())
	assert.False(t, addr.IsZero())
}

func TestAddressJSON(t *testing.T) {
	type wrapper struct {
		Addr meter.Address `json:"addr"`
	}
	in := wrapper{meter.BytesToAddress([]byte("seller"))}
	data, err := json.Marshal(&in)
	assert.Nil(t, err)

	var out wrapper
	assert.Nil(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestBytes32(t *testing.T) {
	b := meter.Blake2b([]byte("auction"))
	parsed, err := meter.ParseBytes32(b.String())
	assert.Nil(t, err)
	assert.Equal(t, b, parsed)
	assert.Equal(t, meter.Bytes32{31: 1}, meter.BytesToBytes32([]byte{1}))
}

func TestContractAddress(t *testing.T) {
	assert.Equal(t, meter.ContractAddress("MTRG"), meter.ContractAddress("MTRG"))
	assert.NotEqual(t, meter.ContractAddress("MTRG"), meter.ContractAddress("NFT"))
}

func TestPrettyDuration(t *testing.T) {
	assert.Equal(t, "1.234ms", meter.PrettyDuration(1234567*time.Nanosecond).String())
}
