// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package logdb indexes the events and transfers of committed engine calls.
package logdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/big"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
)

const (
	eventColumns    = "receiptID, eventIndex, seq, time, op, caller, assetID, address, topic0, topic1, topic2, topic3, topic4, data"
	transferColumns = "receiptID, transferIndex, seq, time, caller, assetID, token, sender, recipient, amount, nonFungible"
)

var log = slog.Default().With("pkg", "logdb")

type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			if err := db.Close(); err != nil {
				log.Warn("could not close logdb", "err", err)
			}
		}
	}()
	// a single connection keeps :memory: databases shared
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema + transferTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() {
	if err := db.db.Close(); err != nil {
		log.Warn("could not close logdb", "err", err)
	}
}

func (db *LogDB) Path() string {
	return db.path
}

func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// Prepare creates a batch holding the logs of r.
func (db *LogDB) Prepare(r *tx.Receipt) *ReceiptBatch {
	bb := &ReceiptBatch{db: db.db}
	return bb.Insert(r)
}

// Publish indexes a committed receipt.
func (db *LogDB) Publish(ctx context.Context, r *tx.Receipt) error {
	return db.Prepare(r).Commit()
}

// LastSeq returns the highest receipt sequence indexed, 0 for an empty db.
func (db *LogDB) LastSeq(ctx context.Context) (uint64, error) {
	var seq uint64
	row := db.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(seq), 0) FROM (SELECT seq FROM event UNION ALL SELECT seq FROM transfer)")
	if err := row.Scan(&seq); err != nil {
		return 0, err
	}
	return seq, nil
}

func rangeCondition(r *Range, stmt string, args []interface{}) (string, []interface{}) {
	if r == nil {
		return stmt, args
	}
	condition := "seq"
	if r.Unit == Time {
		condition = "time"
	}
	args = append(args, r.From)
	stmt += " AND " + condition + " >= ? "
	if r.To >= r.From {
		args = append(args, r.To)
		stmt += " AND " + condition + " <= ? "
	}
	return stmt, args
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, "SELECT "+eventColumns+" FROM event ORDER BY seq ASC,eventIndex ASC")
	}
	var args []interface{}
	stmt := "SELECT " + eventColumns + " FROM event WHERE 1"
	stmt, args = rangeCondition(filter.Range, stmt, args)
	if filter.AssetID != nil {
		args = append(args, int64(*filter.AssetID))
		stmt += " AND assetID = ? "
	}
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Address != nil {
			args = append(args, criteria.Address.Bytes())
			stmt += " AND address = ? "
		}
		for j, topic := range criteria.Topics {
			if topic != nil {
				args = append(args, topic.Bytes())
				stmt += fmt.Sprintf(" AND topic%v = ?", j)
			}
		}
		stmt += ")"
		if i == len(filter.CriteriaSet)-1 {
			stmt += ")"
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC,eventIndex DESC "
	} else {
		stmt += " ORDER BY seq ASC,eventIndex ASC "
	}

	if filter.Options != nil {
		stmt += " limit ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) FilterTransfers(ctx context.Context, filter *TransferFilter) ([]*Transfer, error) {
	if filter == nil {
		return db.queryTransfers(ctx, "SELECT "+transferColumns+" FROM transfer ORDER BY seq ASC,transferIndex ASC")
	}
	var args []interface{}
	stmt := "SELECT " + transferColumns + " FROM transfer WHERE 1"
	stmt, args = rangeCondition(filter.Range, stmt, args)
	if filter.ReceiptID != nil {
		args = append(args, filter.ReceiptID.Bytes())
		stmt += " AND receiptID = ? "
	}
	if filter.AssetID != nil {
		args = append(args, int64(*filter.AssetID))
		stmt += " AND assetID = ? "
	}
	length := len(filter.CriteriaSet)
	if length > 0 {
		for i, criteria := range filter.CriteriaSet {
			if i == 0 {
				stmt += " AND (( 1 "
			} else {
				stmt += " OR ( 1 "
			}
			if criteria.Caller != nil {
				args = append(args, criteria.Caller.Bytes())
				stmt += " AND caller = ? "
			}
			if criteria.Token != nil {
				args = append(args, criteria.Token.Bytes())
				stmt += " AND token = ? "
			}
			if criteria.Sender != nil {
				args = append(args, criteria.Sender.Bytes())
				stmt += " AND sender = ? "
			}
			if criteria.Recipient != nil {
				args = append(args, criteria.Recipient.Bytes())
				stmt += " AND recipient = ? "
			}
			if i == length-1 {
				stmt += " )) "
			} else {
				stmt += " ) "
			}
		}
	}
	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC,transferIndex DESC "
	} else {
		stmt += " ORDER BY seq ASC,transferIndex ASC "
	}
	if filter.Options != nil {
		stmt += " limit ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryTransfers(ctx, stmt, args...)
}

func (db *LogDB) queryEvents(ctx context.Context, stmt string, args ...interface{}) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			receiptID []byte
			index     uint32
			seq       uint64
			time      uint64
			op        string
			caller    []byte
			assetID   int64
			address   []byte
			topics    [5][]byte
			data      []byte
		)
		if err := rows.Scan(
			&receiptID,
			&index,
			&seq,
			&time,
			&op,
			&caller,
			&assetID,
			&address,
			&topics[0],
			&topics[1],
			&topics[2],
			&topics[3],
			&topics[4],
			&data,
		); err != nil {
			return nil, err
		}
		event := &Event{
			ReceiptID: meter.BytesToBytes32(receiptID),
			Index:     index,
			Seq:       seq,
			Time:      time,
			Op:        op,
			Caller:    meter.BytesToAddress(caller),
			AssetID:   uint64(assetID),
			Address:   meter.BytesToAddress(address),
			Data:      data,
		}
		for i, topic := range topics {
			if len(topic) > 0 {
				h := meter.BytesToBytes32(topic)
				event.Topics[i] = &h
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (db *LogDB) queryTransfers(ctx context.Context, stmt string, args ...interface{}) ([]*Transfer, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var transfers []*Transfer
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			receiptID   []byte
			index       uint32
			seq         uint64
			time        uint64
			caller      []byte
			assetID     int64
			token       []byte
			sender      []byte
			recipient   []byte
			amount      []byte
			nonFungible bool
		)
		if err := rows.Scan(
			&receiptID,
			&index,
			&seq,
			&time,
			&caller,
			&assetID,
			&token,
			&sender,
			&recipient,
			&amount,
			&nonFungible,
		); err != nil {
			return nil, err
		}
		trans := &Transfer{
			ReceiptID:   meter.BytesToBytes32(receiptID),
			Index:       index,
			Seq:         seq,
			Time:        time,
			Caller:      meter.BytesToAddress(caller),
			AssetID:     uint64(assetID),
			Token:       meter.BytesToAddress(token),
			Sender:      meter.BytesToAddress(sender),
			Recipient:   meter.BytesToAddress(recipient),
			Amount:      new(big.Int).SetBytes(amount),
			NonFungible: nonFungible,
		}
		transfers = append(transfers, trans)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transfers, nil
}

func topicValue(topic *meter.Bytes32) []byte {
	if topic == nil {
		return nil
	}
	return topic.Bytes()
}

// ReceiptBatch collects the logs of one or more receipts and writes them in
// one sql transaction.
type ReceiptBatch struct {
	db        *sql.DB
	events    []*Event
	transfers []*Transfer
}

// Insert adds the logs of r to the batch.
func (bb *ReceiptBatch) Insert(r *tx.Receipt) *ReceiptBatch {
	for i, event := range r.Events {
		bb.events = append(bb.events, newEvent(r, uint32(i), event))
	}
	for i, transfer := range r.Transfers {
		bb.transfers = append(bb.transfers, newTransfer(r, uint32(i), transfer))
	}
	return bb
}

func (bb *ReceiptBatch) execInTx(proc func(*sql.Tx) error) (err error) {
	tx, err := bb.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		if e := tx.Rollback(); e != nil {
			log.Warn("could not rollback", "err", e)
		}
		return err
	}
	return tx.Commit()
}

func (bb *ReceiptBatch) Commit() error {
	return bb.execInTx(func(tx *sql.Tx) error {
		for _, event := range bb.events {
			if _, err := tx.Exec("INSERT OR REPLACE INTO event("+eventColumns+") VALUES ( ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);",
				event.ReceiptID.Bytes(),
				event.Index,
				event.Seq,
				event.Time,
				event.Op,
				event.Caller.Bytes(),
				int64(event.AssetID),
				event.Address.Bytes(),
				topicValue(event.Topics[0]),
				topicValue(event.Topics[1]),
				topicValue(event.Topics[2]),
				topicValue(event.Topics[3]),
				topicValue(event.Topics[4]),
				event.Data,
			); err != nil {
				return err
			}
		}

		for _, transfer := range bb.transfers {
			if _, err := tx.Exec("INSERT OR REPLACE INTO transfer("+transferColumns+") VALUES ( ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);",
				transfer.ReceiptID.Bytes(),
				transfer.Index,
				transfer.Seq,
				transfer.Time,
				transfer.Caller.Bytes(),
				int64(transfer.AssetID),
				transfer.Token.Bytes(),
				transfer.Sender.Bytes(),
				transfer.Recipient.Bytes(),
				transfer.Amount.Bytes(),
				transfer.NonFungible,
			); err != nil {
				return err
			}
		}
		return nil
	})
}
