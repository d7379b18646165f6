// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/auction"
	"github.com/meterio/meter-auction/tx"
	"github.com/pkg/errors"
)

type Auction struct {
	engine *auction.Engine
}

func New(engine *auction.Engine) *Auction {
	return &Auction{
		engine,
	}
}

// StatusOf maps a rejection kind to the http status it is reported with.
func StatusOf(kind auction.Kind) int {
	switch kind {
	case auction.KindNotAuthorized:
		return http.StatusForbidden
	case auction.KindInvalidSchedule, auction.KindUnsupportedAssetType, auction.KindInvalidPrice:
		return http.StatusBadRequest
	case auction.KindNotListed:
		return http.StatusNotFound
	case auction.KindNotStarted, auction.KindAuctionEnded, auction.KindAuctionInProgress, auction.KindAlreadyListed:
		return http.StatusConflict
	case auction.KindBidTooLow, auction.KindTransferFailure:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) error {
	var rejection *auction.Error
	if !errors.As(err, &rejection) || rejection.Kind == auction.KindUnknown {
		return err
	}
	return utils.WriteJSONStatus(w, StatusOf(rejection.Kind), &Error{
		Kind:      rejection.Kind.String(),
		Reason:    rejection.Reason,
		Temporary: rejection.Kind.Temporary(),
	})
}

func respond(w http.ResponseWriter, r *tx.Receipt, err error) error {
	if err != nil {
		return writeError(w, err)
	}
	return utils.WriteJSON(w, convertReceipt(r))
}

func parseAssetID(req *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(mux.Vars(req)["assetID"], 0, 64)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "assetID"))
	}
	return id, nil
}

func (a *Auction) handleGetListings(w http.ResponseWriter, req *http.Request) error {
	list, err := a.engine.Listings()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertListings(list))
}

func (a *Auction) handleGetListing(w http.ResponseWriter, req *http.Request) error {
	id, err := parseAssetID(req)
	if err != nil {
		return err
	}
	l, err := a.engine.Listing(id)
	if err != nil {
		return writeError(w, err)
	}
	phase, err := a.engine.Phase(id)
	if err != nil {
		return err
	}
	listing := convertListing(l)
	listing.Phase = phase.String()
	return utils.WriteJSON(w, listing)
}

func (a *Auction) handleGetHistory(w http.ResponseWriter, req *http.Request) error {
	id, err := parseAssetID(req)
	if err != nil {
		return err
	}
	list, err := a.engine.History(id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertListings(list))
}

func (a *Auction) handleList(w http.ResponseWriter, req *http.Request) error {
	var body ListRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	r, err := a.engine.ListAsset(req.Context(), body.Caller, &auction.ListRequest{
		AssetID:       body.AssetID,
		PaymentToken:  body.PaymentToken,
		AssetRegistry: body.AssetRegistry,
		MinPrice:      (*big.Int)(body.MinPrice),
		StartTime:     body.StartTime,
		EndTime:       body.EndTime,
	})
	return respond(w, r, err)
}

func (a *Auction) handleBid(w http.ResponseWriter, req *http.Request) error {
	id, err := parseAssetID(req)
	if err != nil {
		return err
	}
	var body BidRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	r, err := a.engine.PlaceBid(req.Context(), body.Caller, id, (*big.Int)(body.Amount))
	return respond(w, r, err)
}

func (a *Auction) handleFinish(w http.ResponseWriter, req *http.Request) error {
	id, err := parseAssetID(req)
	if err != nil {
		return err
	}
	var body FinishRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	r, err := a.engine.FinishAuction(req.Context(), body.Caller, id)
	return respond(w, r, err)
}

// Mount registers the auction routes. The acting identity of a call is the
// caller field of its body and nothing authenticates it, so the routes are
// only fit for a development node bound to a trusted interface.
func (a *Auction) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/listings").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetListings))
	sub.Path("/listings").Methods("POST").HandlerFunc(utils.WrapHandlerFunc(a.handleList))
	sub.Path("/listings/{assetID}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetListing))
	sub.Path("/listings/{assetID}/history").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetHistory))
	sub.Path("/listings/{assetID}/bids").Methods("POST").HandlerFunc(utils.WrapHandlerFunc(a.handleBid))
	sub.Path("/listings/{assetID}/finish").Methods("POST").HandlerFunc(utils.WrapHandlerFunc(a.handleFinish))
}
