// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// asset ids are stored as the int64 with the same bits
const (
	eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	receiptID BLOB(32) NOT NULL,
	eventIndex INTEGER NOT NULL,
	seq INTEGER NOT NULL,
	time INTEGER NOT NULL,
	op TEXT NOT NULL,
	caller BLOB(20) NOT NULL,
	assetID INTEGER NOT NULL,
	address BLOB(20) NOT NULL,
	topic0 BLOB(32),
	topic1 BLOB(32),
	topic2 BLOB(32),
	topic3 BLOB(32),
	topic4 BLOB(32),
	data BLOB,
	PRIMARY KEY (receiptID, eventIndex)
);
CREATE INDEX IF NOT EXISTS eventSeqIndex ON event(seq);
CREATE INDEX IF NOT EXISTS eventAssetIndex ON event(assetID);
CREATE INDEX IF NOT EXISTS eventTopic0Index ON event(topic0);
`

	transferTableSchema = `CREATE TABLE IF NOT EXISTS transfer (
	receiptID BLOB(32) NOT NULL,
	transferIndex INTEGER NOT NULL,
	seq INTEGER NOT NULL,
	time INTEGER NOT NULL,
	caller BLOB(20) NOT NULL,
	assetID INTEGER NOT NULL,
	token BLOB(20) NOT NULL,
	sender BLOB(20) NOT NULL,
	recipient BLOB(20) NOT NULL,
	amount BLOB(32),
	nonFungible INTEGER NOT NULL,
	PRIMARY KEY (receiptID, transferIndex)
);
CREATE INDEX IF NOT EXISTS transferSeqIndex ON transfer(seq);
CREATE INDEX IF NOT EXISTS transferSenderIndex ON transfer(sender);
CREATE INDEX IF NOT EXISTS transferRecipientIndex ON transfer(recipient);
`
)
