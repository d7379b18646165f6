// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/url"
	"strconv"

	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/meter"
	"github.com/pkg/errors"
)

// message is a subscription payload tagged with the receipt it came from.
type message struct {
	seq  uint64
	body interface{}
}

func parseAssetID(query url.Values) (*uint64, error) {
	s := query.Get("assetId")
	if s == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return nil, errors.WithMessage(err, "assetId")
	}
	return &id, nil
}

func parseAddress(query url.Values, key string) (*meter.Address, error) {
	s := query.Get(key)
	if s == "" {
		return nil, nil
	}
	addr, err := meter.ParseAddress(s)
	if err != nil {
		return nil, errors.WithMessage(err, key)
	}
	return &addr, nil
}

func parseTopic(query url.Values, key string) (*meter.Bytes32, error) {
	s := query.Get(key)
	if s == "" {
		return nil, nil
	}
	topic, err := meter.ParseBytes32(s)
	if err != nil {
		return nil, errors.WithMessage(err, key)
	}
	return &topic, nil
}

// parsePosition returns the sequence after which history is replayed, nil
// for live messages only.
func parsePosition(query url.Values) (*uint64, error) {
	s := query.Get("pos")
	if s == "" {
		return nil, nil
	}
	pos, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return nil, errors.WithMessage(err, "pos")
	}
	return &pos, nil
}

func parseEventFilter(query url.Values) (*logdb.EventFilter, error) {
	assetID, err := parseAssetID(query)
	if err != nil {
		return nil, err
	}
	criteria := &logdb.EventCriteria{}
	if criteria.Address, err = parseAddress(query, "addr"); err != nil {
		return nil, err
	}
	for i := range criteria.Topics {
		if criteria.Topics[i], err = parseTopic(query, "t"+strconv.Itoa(i)); err != nil {
			return nil, err
		}
	}
	return &logdb.EventFilter{
		AssetID:     assetID,
		CriteriaSet: []*logdb.EventCriteria{criteria},
	}, nil
}

func parseTransferFilter(query url.Values) (*logdb.TransferFilter, error) {
	assetID, err := parseAssetID(query)
	if err != nil {
		return nil, err
	}
	criteria := &logdb.TransferCriteria{}
	if criteria.Caller, err = parseAddress(query, "caller"); err != nil {
		return nil, err
	}
	if criteria.Token, err = parseAddress(query, "token"); err != nil {
		return nil, err
	}
	if criteria.Sender, err = parseAddress(query, "sender"); err != nil {
		return nil, err
	}
	if criteria.Recipient, err = parseAddress(query, "recipient"); err != nil {
		return nil, err
	}
	return &logdb.TransferFilter{
		AssetID:     assetID,
		CriteriaSet: []*logdb.TransferCriteria{criteria},
	}, nil
}
