// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package erc721_test

import (
	"context"
	"testing"

	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/token"
	"github.com/meterio/meter-auction/token/erc721"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner    = meter.BytesToAddress([]byte("owner"))
	operator = meter.BytesToAddress([]byte("operator"))
	other    = meter.BytesToAddress([]byte("other"))
)

func TestMintAndOwnerOf(t *testing.T) {
	ctx := context.Background()
	nft := erc721.New("Meter Art", "MART", state.New())

	_, err := nft.OwnerOf(ctx, 1)
	assert.Equal(t, token.ErrUnknownToken, err)

	require.Nil(t, nft.SafeMint(ctx, owner, 1))
	assert.Equal(t, token.ErrAlreadyMinted, nft.SafeMint(ctx, other, 1))

	got, err := nft.OwnerOf(ctx, 1)
	assert.Nil(t, err)
	assert.Equal(t, owner, got)
}

func TestApproveAndTransfer(t *testing.T) {
	ctx := context.Background()
	nft := erc721.New("Meter Art", "MART", state.New())
	require.Nil(t, nft.SafeMint(ctx, owner, 1))

	assert.Equal(t, token.ErrNotOwnerNorApproved, nft.TransferFrom(ctx, operator, owner, other, 1))
	assert.Equal(t, token.ErrNotOwnerNorApproved, nft.Approve(ctx, other, operator, 1))

	require.Nil(t, nft.Approve(ctx, owner, operator, 1))
	ok, err := nft.IsApprovedOrOwner(ctx, operator, 1)
	assert.Nil(t, err)
	assert.True(t, ok)

	assert.Equal(t, token.ErrIncorrectOwner, nft.TransferFrom(ctx, operator, other, operator, 1))
	require.Nil(t, nft.TransferFrom(ctx, operator, owner, other, 1))

	got, _ := nft.OwnerOf(ctx, 1)
	assert.Equal(t, other, got)
	// approval is cleared by the transfer
	approved, _ := nft.GetApproved(ctx, 1)
	assert.True(t, approved.IsZero())
	ok, _ = nft.IsApprovedOrOwner(ctx, operator, 1)
	assert.False(t, ok)
}

func TestOperator(t *testing.T) {
	ctx := context.Background()
	nft := erc721.New("Meter Art", "MART", state.New())
	require.Nil(t, nft.SafeMint(ctx, owner, 7))
	require.Nil(t, nft.SetApprovalForAll(ctx, owner, operator, true))

	assert.Nil(t, nft.TransferFrom(ctx, operator, owner, operator, 7))
	assert.True(t, nft.SupportsInterface(token.InterfaceIDERC721))
	assert.False(t, nft.SupportsInterface(token.InterfaceIDERC20))
}
