// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token_test

import (
	"testing"

	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/token"
	"github.com/meterio/meter-auction/token/mock"
	"github.com/stretchr/testify/assert"
)

func TestRegistry(t *testing.T) {
	a := mock.NewContract(meter.BytesToAddress([]byte{2}), token.InterfaceIDERC721)
	b := mock.NewContract(meter.BytesToAddress([]byte{1}))
	reg := token.NewRegistry(a, b)

	c, ok := reg.Resolve(a.Address())
	assert.True(t, ok)
	assert.True(t, c.SupportsInterface(token.InterfaceIDERC721))

	_, ok = reg.Resolve(meter.BytesToAddress([]byte{3}))
	assert.False(t, ok)

	list := reg.Contracts()
	assert.Equal(t, []token.Contract{b, a}, list)
}
