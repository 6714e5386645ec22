// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"math"
	"strings"

	"github.com/holiman/uint256"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/pooledstaking/pstake/pstake"
)

type LogDB struct {
	path          string
	db            *sql.DB
	stmtCache     *stmtCache
	driverVersion string
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	dsn := path
	if path != ":memory:" {
		dsn += "?_journal_mode=WAL&_busy_timeout=5000"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open log db")
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	// a memory db lives as long as its only connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create event table")
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path:          path,
		db:            db,
		stmtCache:     newStmtCache(db),
		driverVersion: driverVer,
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// DriverVersion returns the sqlite library version.
func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// Insert writes events in one transaction. Rewriting an existing seq replaces the row.
func (db *LogDB) Insert(events []*Event) error {
	if len(events) == 0 {
		return nil
	}
	stmt, err := db.stmtCache.Prepare(insertEventQuery)
	if err != nil {
		return err
	}
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	txStmt := tx.Stmt(stmt)
	for _, ev := range events {
		if _, err := txStmt.Exec(
			ev.Seq,
			ev.Time,
			ev.Kind,
			ev.Contract.Bytes(),
			ev.Staker.Bytes(),
			amountValue(ev.Amount),
			amountValue(ev.Extra),
			ev.ActionID,
		); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "insert event %d", ev.Seq)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	metricInsertedCounter().Add(int64(len(events)))
	return nil
}

// NewestSeq returns the highest stored seq, 0 for an empty log.
func (db *LogDB) NewestSeq() (uint64, error) {
	var seq sql.NullInt64
	if err := db.db.QueryRow("SELECT MAX(seq) FROM event").Scan(&seq); err != nil {
		return 0, err
	}
	return uint64(seq.Int64), nil
}

func amountValue(v *uint256.Int) []byte {
	if v == nil {
		v = new(uint256.Int)
	}
	b := v.Bytes32()
	return b[:]
}

// sqlUint clamps v into the signed range the sql driver accepts.
func sqlUint(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}

func (db *LogDB) where(filter *EventFilter) (string, []any) {
	if filter == nil {
		return "", nil
	}
	var args []any
	stmt := " WHERE 1"
	if filter.Range != nil {
		column := "seq"
		if filter.Range.Unit == Time {
			column = "time"
		}
		args = append(args, sqlUint(filter.Range.From))
		stmt += " AND " + column + " >= ?"
		if filter.Range.To >= filter.Range.From {
			args = append(args, sqlUint(filter.Range.To))
			stmt += " AND " + column + " <= ?"
		}
	}
	if len(filter.Kinds) > 0 {
		stmt += " AND kind IN (?" + strings.Repeat(",?", len(filter.Kinds)-1) + ")"
		for _, k := range filter.Kinds {
			args = append(args, k)
		}
	}
	if filter.Contract != nil {
		args = append(args, filter.Contract.Bytes())
		stmt += " AND contract = ?"
	}
	if filter.Staker != nil {
		args = append(args, filter.Staker.Bytes())
		stmt += " AND staker = ?"
	}
	return stmt, args
}

// FilterEvents returns matching events ordered by seq.
func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	metricsHandleEventsFilter(filter)

	where, args := db.where(filter)
	stmt := selectEventColumns + where
	if filter != nil && filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}
	if filter != nil && filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, sqlUint(filter.Options.Offset), sqlUint(filter.Options.Limit))
	}
	return db.queryEvents(ctx, stmt, args...)
}

// SumEvents aggregates matching events. Options and Order are ignored.
func (db *LogDB) SumEvents(ctx context.Context, filter *EventFilter) (*Sum, error) {
	where, args := db.where(filter)
	rows, err := db.db.QueryContext(ctx, "SELECT amount, extra FROM event"+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sum := &Sum{Amount: new(uint256.Int), Extra: new(uint256.Int)}
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var amount, extra []byte
		if err := rows.Scan(&amount, &extra); err != nil {
			return nil, err
		}
		var a, e uint256.Int
		a.SetBytes(amount)
		e.SetBytes(extra)
		if _, overflow := sum.Amount.AddOverflow(sum.Amount, &a); overflow {
			return nil, errors.New("event amount sum overflows")
		}
		if _, overflow := sum.Extra.AddOverflow(sum.Extra, &e); overflow {
			return nil, errors.New("event extra sum overflows")
		}
		sum.Count++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sum, nil
}

func (db *LogDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*Event, 0)
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			ev       Event
			contract []byte
			staker   []byte
			amount   []byte
			extra    []byte
		)
		if err := rows.Scan(
			&ev.Seq,
			&ev.Time,
			&ev.Kind,
			&contract,
			&staker,
			&amount,
			&extra,
			&ev.ActionID,
		); err != nil {
			return nil, err
		}
		ev.Contract = pstake.BytesToAddress(contract)
		ev.Staker = pstake.BytesToAddress(staker)
		ev.Amount = new(uint256.Int).SetBytes(amount)
		ev.Extra = new(uint256.Int).SetBytes(extra)
		events = append(events, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
