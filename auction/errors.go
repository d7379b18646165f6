// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"github.com/pkg/errors"
)

// Kind classifies why a call was rejected.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindNotAuthorized
	KindInvalidSchedule
	KindUnsupportedAssetType
	KindNotListed
	KindNotStarted
	KindAuctionEnded
	KindBidTooLow
	KindAuctionInProgress
	KindTransferFailure
	KindAlreadyListed
	KindInvalidPrice
)

func (k Kind) String() string {
	switch k {
	case KindNotAuthorized:
		return "NotAuthorized"
	case KindInvalidSchedule:
		return "InvalidSchedule"
	case KindUnsupportedAssetType:
		return "UnsupportedAssetType"
	case KindNotListed:
		return "NotListed"
	case KindNotStarted:
		return "NotStarted"
	case KindAuctionEnded:
		return "AuctionEnded"
	case KindBidTooLow:
		return "BidTooLow"
	case KindAuctionInProgress:
		return "AuctionInProgress"
	case KindTransferFailure:
		return "TransferFailure"
	case KindAlreadyListed:
		return "AlreadyListed"
	case KindInvalidPrice:
		return "InvalidPrice"
	default:
		return "Unknown"
	}
}

// Temporary reports whether the same call may succeed later without changes.
func (k Kind) Temporary() bool {
	return k == KindNotStarted || k == KindAuctionInProgress
}

// Error is a rejection. Two errors match under errors.Is when their kinds are
// equal and the target either has no reason or the same reason.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Reason == "" || t.Reason == e.Reason)
}

// KindOf returns the kind of a rejection, KindUnknown for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// kind sentinels, for errors.Is
var (
	ErrNotAuthorized        = &Error{Kind: KindNotAuthorized}
	ErrInvalidSchedule      = &Error{Kind: KindInvalidSchedule}
	ErrUnsupportedAssetType = &Error{Kind: KindUnsupportedAssetType}
	ErrNotListed            = &Error{Kind: KindNotListed}
	ErrNotStarted           = &Error{Kind: KindNotStarted}
	ErrAuctionEnded         = &Error{Kind: KindAuctionEnded}
	ErrBidTooLow            = &Error{Kind: KindBidTooLow}
	ErrAuctionInProgress    = &Error{Kind: KindAuctionInProgress}
	ErrTransferFailure      = &Error{Kind: KindTransferFailure}
	ErrAlreadyListed        = &Error{Kind: KindAlreadyListed}
	ErrInvalidPrice         = &Error{Kind: KindInvalidPrice}
)

var (
	errOnlyOwner           = &Error{Kind: KindNotAuthorized, Reason: "only owner"}
	errFutureStartOnly     = &Error{Kind: KindInvalidSchedule, Reason: "future start only"}
	errEndsAfterStartsOnly = &Error{Kind: KindInvalidSchedule, Reason: "ends after starts only"}
	errNotERC721           = &Error{Kind: KindUnsupportedAssetType, Reason: "not an ERC721"}
	errNotERC20            = &Error{Kind: KindUnsupportedAssetType, Reason: "not an ERC20"}
	errNonListedAsset      = &Error{Kind: KindNotListed, Reason: "non listed asset"}
	errAssetNotListed      = &Error{Kind: KindNotListed, Reason: "asset not listed"}
	errYetToStart          = &Error{Kind: KindNotStarted, Reason: "auction yet to start"}
	errAuctionEnded        = &Error{Kind: KindAuctionEnded, Reason: "auction ended"}
	errMinBidHigher        = &Error{Kind: KindBidTooLow, Reason: "min bid is higher"}
	errLastBidHigher       = &Error{Kind: KindBidTooLow, Reason: "last bid is higher"}
	errInProgress          = &Error{Kind: KindAuctionInProgress, Reason: "auction in progress"}
	errAlreadyListed       = &Error{Kind: KindAlreadyListed, Reason: "asset already listed"}
	errInvalidMinPrice     = &Error{Kind: KindInvalidPrice, Reason: "invalid min price"}
	errInvalidAmount       = &Error{Kind: KindInvalidPrice, Reason: "invalid bid amount"}
)

func transferFailure(reason string, err error) *Error {
	return &Error{Kind: KindTransferFailure, Reason: reason, Err: err}
}
