// Copyright (c) 2026 The Veilchain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb persists the ledger's plaintext event stream. Events never
// carry secret data: amounts appear only for the public claim constant and
// elapsed-day counts.
package eventdb

import (
	"context"
	"database/sql"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/veilchain/veil/veil"
)

// Kind of a ledger event.
type Kind string

const (
	KindClaimed         Kind = "claimed"
	KindStaked          Kind = "staked"
	KindUnstaked        Kind = "unstaked"
	KindInterestClaimed Kind = "interest-claimed"
)

// Event is one plaintext ledger notification.
type Event struct {
	Sequence  uint64       `json:"sequence"`
	Timestamp uint64       `json:"timestamp"`
	Kind      Kind         `json:"kind"`
	Principal veil.Address `json:"principal"`
	// Amount is only meaningful for claimed events (the public grant constant).
	Amount uint64 `json:"amount"`
	// Days is only meaningful for interest-claimed events.
	Days uint64 `json:"days"`
}

// Filter limits an event query. Zero values mean "any".
type Filter struct {
	Principal *veil.Address
	Kind      Kind
	From      uint64 // inclusive timestamp bound
	To        uint64 // inclusive timestamp bound; 0 means open-ended
	Limit     uint64 // 0 means no limit
}

const eventTableSchema = `
create table if not exists event (
	seq integer primary key autoincrement,
	ts integer not null,
	kind text not null,
	principal blob(20) not null,
	amount integer not null,
	days integer not null
);

create index if not exists principalIndex on event(principal);
create index if not exists tsIndex on event(ts);
`

// EventDB is the sqlite-backed event log.
type EventDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open event db at given path.
func New(path string) (eventDB *EventDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if eventDB == nil {
			db.Close()
		}
	}()
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create event schema")
	}

	driverVer, _, _ := sqlite3.Version()
	return &EventDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create an event db in ram.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Close close the event db.
func (db *EventDB) Close() error {
	return db.db.Close()
}

func (db *EventDB) Path() string {
	return db.path
}

// Append stores one event and returns its sequence number.
func (db *EventDB) Append(ctx context.Context, ev *Event) (uint64, error) {
	res, err := db.db.ExecContext(ctx,
		"insert into event(ts, kind, principal, amount, days) values(?,?,?,?,?)",
		ev.Timestamp, string(ev.Kind), ev.Principal.Bytes(), ev.Amount, ev.Days)
	if err != nil {
		return 0, errors.Wrap(err, "append event")
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "event sequence")
	}
	return uint64(seq), nil
}

// Filter queries events, ordered by sequence.
func (db *EventDB) Filter(ctx context.Context, filter *Filter) ([]*Event, error) {
	stmt := "select seq, ts, kind, principal, amount, days from event where 1"
	var args []interface{}

	if filter != nil {
		if filter.Principal != nil {
			stmt += " and principal = ?"
			args = append(args, filter.Principal.Bytes())
		}
		if filter.Kind != "" {
			stmt += " and kind = ?"
			args = append(args, string(filter.Kind))
		}
		if filter.From > 0 {
			stmt += " and ts >= ?"
			args = append(args, filter.From)
		}
		if filter.To > 0 {
			stmt += " and ts <= ?"
			args = append(args, filter.To)
		}
	}
	stmt += " order by seq"
	if filter != nil && filter.Limit > 0 {
		stmt += " limit ?"
		args = append(args, filter.Limit)
	}

	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query events")
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var (
			ev        Event
			kind      string
			principal []byte
		)
		if err := rows.Scan(&ev.Sequence, &ev.Timestamp, &kind, &principal, &ev.Amount, &ev.Days); err != nil {
			return nil, errors.Wrap(err, "scan event")
		}
		ev.Kind = Kind(kind)
		ev.Principal = veil.BytesToAddress(principal)
		events = append(events, &ev)
	}
	return events, rows.Err()
}
