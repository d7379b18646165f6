// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/meterio/meter-auction/api"
	"github.com/meterio/meter-auction/api/accounts"
	apiauction "github.com/meterio/meter-auction/api/auction"
	"github.com/meterio/meter-auction/api/events"
	"github.com/meterio/meter-auction/api/node"
	"github.com/meterio/meter-auction/api/subscriptions"
	"github.com/meterio/meter-auction/auction"
	"github.com/meterio/meter-auction/clock"
	"github.com/meterio/meter-auction/genesis"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/meter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const now = uint64(1700000000)

type fixture struct {
	ts     *httptest.Server
	clk    *clock.Manual
	ledger *genesis.Ledger
	seller meter.Address
	bidder meter.Address
}

func newFixture(t *testing.T) *fixture {
	ctx := context.Background()
	ledger, err := genesis.NewDevnet().Build(ctx, meter.AuctionAccountAddr)
	require.NoError(t, err)

	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	subs := subscriptions.New(logDB, nil)
	clk := clock.NewManual(now)
	e := auction.New(meter.AuctionAccountAddr, auction.NewMemStore(), ledger.Registry, clk, ledger.State, auction.Sinks{logDB, subs})

	handler, closeAPI := api.New("devnet", e, ledger.Registry, clk, logDB, subs, "*")
	ts := httptest.NewServer(handler)
	t.Cleanup(func() {
		closeAPI()
		ts.Close()
		logDB.Close()
	})

	accs := genesis.DevAccounts()
	return &fixture{ts, clk, ledger, accs[0].Address, accs[1].Address}
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}, out interface{}) int {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, f.ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.Unmarshal(data, out), string(data))
	}
	return res.StatusCode
}

func hexOrDecimal(v int64) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(big.NewInt(v))
}

func TestAuctionLifecycle(t *testing.T) {
	f := newFixture(t)
	mst := f.ledger.Tokens["MST"].Address()
	mart := f.ledger.Collections["MART"].Address()

	var receipt apiauction.Receipt
	status := f.do(t, "POST", "/auction/listings", &apiauction.ListRequest{
		Caller:        f.seller,
		AssetID:       1,
		PaymentToken:  mst,
		AssetRegistry: mart,
		MinPrice:      hexOrDecimal(100),
		StartTime:     now + 10,
		EndTime:       now + 100,
	}, &receipt)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, uint64(1), receipt.Seq)
	require.Len(t, receipt.Events, 2)
	assert.Equal(t, auction.EventAssetReceived, receipt.Events[0].Name)
	assert.Equal(t, auction.EventAssetListed, receipt.Events[1].Name)

	var rejection apiauction.Error
	status = f.do(t, "POST", "/auction/listings/1/bids", &apiauction.BidRequest{Caller: f.bidder, Amount: hexOrDecimal(150)}, &rejection)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "NotStarted", rejection.Kind)
	assert.Equal(t, "auction yet to start", rejection.Reason)
	assert.True(t, rejection.Temporary)

	f.clk.Advance(10)
	status = f.do(t, "POST", "/auction/listings/1/bids", &apiauction.BidRequest{Caller: f.bidder, Amount: hexOrDecimal(50)}, &rejection)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "min bid is higher", rejection.Reason)

	status = f.do(t, "POST", "/auction/listings/1/bids", &apiauction.BidRequest{Caller: f.bidder, Amount: hexOrDecimal(150)}, &receipt)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, uint64(2), receipt.Seq)

	var listing apiauction.Listing
	require.Equal(t, http.StatusOK, f.do(t, "GET", "/auction/listings/1", nil, &listing))
	assert.Equal(t, "open", listing.Phase)
	assert.Equal(t, big.NewInt(150), (*big.Int)(listing.HighestBid))
	assert.Equal(t, &f.bidder, listing.HighestBidder)

	status = f.do(t, "POST", "/auction/listings/1/finish", &apiauction.FinishRequest{Caller: f.bidder}, &rejection)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "auction in progress", rejection.Reason)

	f.clk.Advance(90)
	status = f.do(t, "POST", "/auction/listings/1/finish", &apiauction.FinishRequest{Caller: f.bidder}, &receipt)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, auction.EventSale, receipt.Events[0].Name)

	status = f.do(t, "POST", "/auction/listings/1/finish", &apiauction.FinishRequest{Caller: f.bidder}, &rejection)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "asset not listed", rejection.Reason)

	var asset accounts.Asset
	require.Equal(t, http.StatusOK, f.do(t, "GET", fmt.Sprintf("/accounts/contracts/%v/assets/1", mart), nil, &asset))
	assert.Equal(t, f.bidder, asset.Owner)
	assert.False(t, asset.ApprovedToEngine)

	var history []*apiauction.Listing
	require.Equal(t, http.StatusOK, f.do(t, "GET", "/auction/listings/1/history", nil, &history))
	require.Len(t, history, 1)
	assert.Equal(t, "sale", history[0].Outcome)

	var logs []*events.FilteredEvent
	require.Equal(t, http.StatusOK, f.do(t, "POST", "/logs/event", &events.EventFilter{}, &logs))
	require.Len(t, logs, 4)
	assert.Equal(t, auction.EventSale, logs[3].Decoded.Name)

	var st node.Status
	require.Equal(t, http.StatusOK, f.do(t, "GET", "/node/status", nil, &st))
	assert.Equal(t, uint64(3), st.Seq)
}

func TestAccounts(t *testing.T) {
	f := newFixture(t)
	mst := f.ledger.Tokens["MST"].Address()
	mart := f.ledger.Collections["MART"].Address()

	var contracts []*accounts.Contract
	require.Equal(t, http.StatusOK, f.do(t, "GET", "/accounts/contracts", nil, &contracts))
	require.Len(t, contracts, 2)

	var acc accounts.Account
	require.Equal(t, http.StatusOK, f.do(t, "GET", fmt.Sprintf("/accounts/%v/tokens/%v", f.bidder, mst), nil, &acc))
	supply, _ := new(big.Int).SetString("1000000000000000000000000", 10)
	assert.Equal(t, supply, (*big.Int)(&acc.Balance))
	assert.Equal(t, supply, (*big.Int)(&acc.Allowance))

	require.Equal(t, http.StatusOK, f.do(t, "POST", fmt.Sprintf("/accounts/%v/approvals", f.bidder),
		&accounts.Approval{Token: mst, Amount: hexOrDecimal(5)}, nil))
	require.Equal(t, http.StatusOK, f.do(t, "GET", fmt.Sprintf("/accounts/%v/tokens/%v", f.bidder, mst), nil, &acc))
	assert.Equal(t, big.NewInt(5), (*big.Int)(&acc.Allowance))

	// only the owner may approve an asset
	id := uint64(2)
	assert.Equal(t, http.StatusForbidden, f.do(t, "POST", fmt.Sprintf("/accounts/%v/approvals", f.bidder),
		&accounts.Approval{Token: mart, AssetID: &id}, nil))
	assert.Equal(t, http.StatusBadRequest, f.do(t, "POST", fmt.Sprintf("/accounts/%v/approvals", f.bidder),
		&accounts.Approval{Token: mart}, nil))
	assert.Equal(t, http.StatusNotFound, f.do(t, "GET", fmt.Sprintf("/accounts/contracts/%v/assets/99", mart), nil, nil))
}

func TestMetrics(t *testing.T) {
	f := newFixture(t)
	res, err := http.Get(f.ts.URL + "/metrics")
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, strings.Contains(string(data), "auction_"))
}
