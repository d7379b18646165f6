// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfers

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/meterio/meter-auction/api/events"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/meter"
)

// FilteredTransfer is a transfer located by its receipt.
type FilteredTransfer struct {
	Token       meter.Address         `json:"token"`
	Sender      meter.Address         `json:"sender"`
	Recipient   meter.Address         `json:"recipient"`
	Amount      *math.HexOrDecimal256 `json:"amount"`
	NonFungible bool                  `json:"nonFungible"`
	Meta        events.LogMeta        `json:"meta"`
}

func ConvertTransfer(transfer *logdb.Transfer) *FilteredTransfer {
	v := math.HexOrDecimal256(*transfer.Amount)
	return &FilteredTransfer{
		Token:       transfer.Token,
		Sender:      transfer.Sender,
		Recipient:   transfer.Recipient,
		Amount:      &v,
		NonFungible: transfer.NonFungible,
		Meta: events.LogMeta{
			ReceiptID: transfer.ReceiptID,
			Seq:       transfer.Seq,
			Time:      transfer.Time,
			Caller:    transfer.Caller,
			AssetID:   transfer.AssetID,
		},
	}
}

type TransferFilter struct {
	ReceiptID   *meter.Bytes32            `json:"receiptID"`
	AssetID     *uint64                   `json:"assetId"`
	CriteriaSet []*logdb.TransferCriteria `json:"criteriaSet"`
	Range       *logdb.Range              `json:"range"`
	Options     *logdb.Options            `json:"options"`
	Order       logdb.Order               `json:"order"`
}

func convertTransferFilter(filter *TransferFilter) *logdb.TransferFilter {
	return &logdb.TransferFilter{
		ReceiptID:   filter.ReceiptID,
		AssetID:     filter.AssetID,
		CriteriaSet: filter.CriteriaSet,
		Range:       filter.Range,
		Options:     filter.Options,
		Order:       filter.Order,
	}
}
