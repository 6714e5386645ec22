// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

const eventTableSchema = `
CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY,
	time INTEGER NOT NULL,
	kind TEXT NOT NULL,
	contract BLOB(20) NOT NULL,
	staker BLOB(20) NOT NULL,
	amount BLOB(32) NOT NULL,
	extra BLOB(32) NOT NULL,
	actionID INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS eventKindIndex ON event(kind);
CREATE INDEX IF NOT EXISTS eventContractIndex ON event(contract);
CREATE INDEX IF NOT EXISTS eventStakerIndex ON event(staker);
CREATE INDEX IF NOT EXISTS eventTimeIndex ON event(time);
`

const insertEventQuery = `INSERT OR REPLACE INTO event(seq, time, kind, contract, staker, amount, extra, actionID) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

const selectEventColumns = `SELECT seq, time, kind, contract, staker, amount, extra, actionID FROM event`
