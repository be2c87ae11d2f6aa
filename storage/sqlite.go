// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/scriptsettings/fault"
)

const (
	currentSQLiteVersion = 1

	// short, so that contention surfaces as busy and is retried by the
	// caller's backoff instead of blocking inside the driver
	sqliteBusyTimeoutMs = 100
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS script_settings (
    owner      TEXT    NOT NULL,
    scope      TEXT    NOT NULL,
    blob       BLOB    NOT NULL,
    updated_at INTEGER NOT NULL,
    PRIMARY KEY (owner, scope)
)`

type sqliteStore struct {
	log   *logger.L
	sqlDB *sql.DB
}

// holds one connection from BEGIN IMMEDIATE to COMMIT/ROLLBACK so
// that a busy COMMIT can be re-issued on the same transaction
type sqliteTransaction struct {
	store *sqliteStore
	conn  *sql.Conn
	count int
	done  bool
}

func openSQLite(path string, readOnly bool) (Store, error) {
	if "" == strings.TrimSpace(path) {
		return nil, fmt.Errorf("storage path is required")
	}
	log := logger.New("storage")

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", filepath.Clean(path), sqliteBusyTimeoutMs)
	if readOnly {
		dsn += "&mode=ro"
	} else {
		dsn += "&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if nil != err {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); nil != err {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", classify(err))
	}

	s := &sqliteStore{
		log:   log,
		sqlDB: sqlDB,
	}

	version, err := s.version()
	if nil != err {
		_ = sqlDB.Close()
		return nil, err
	}

	// ensure no database downgrade
	if version > currentSQLiteVersion {
		log.Criticalf("database version: %d > current version: %d", version, currentSQLiteVersion)
		_ = sqlDB.Close()
		return nil, fault.ErrDatabaseVersion
	}

	if version < currentSQLiteVersion && !readOnly {
		if err := s.migrate(); nil != err {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	log.Infof("opened sqlite: %s  version: %d", path, version)
	return s, nil
}

func (s *sqliteStore) version() (int, error) {
	version := 0
	if err := s.sqlDB.QueryRow(`PRAGMA user_version`).Scan(&version); nil != err {
		return 0, classify(err)
	}
	return version, nil
}

func (s *sqliteStore) migrate() error {
	if _, err := s.sqlDB.Exec(sqliteSchema); nil != err {
		return classify(err)
	}
	_, err := s.sqlDB.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, currentSQLiteVersion))
	return classify(err)
}

// map driver busy/locked results to fault.ErrStorageBusy
func classify(err error) error {
	if nil == err {
		return nil
	}
	var e *sqlite.Error
	if errors.As(err, &e) {
		switch e.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return fmt.Errorf("%w: %s", fault.ErrStorageBusy, err)
		}
	}
	if errors.Is(err, sql.ErrConnDone) || strings.Contains(err.Error(), "database is closed") {
		return fault.ErrStorageClosed
	}
	return err
}

func (s *sqliteStore) Get(owner string, scope string) ([]byte, bool, error) {
	if err := validKey(owner, scope); nil != err {
		return nil, false, err
	}

	var blob []byte
	err := s.sqlDB.QueryRow(
		`SELECT blob FROM script_settings WHERE owner = ? AND scope = ?`,
		owner, scope,
	).Scan(&blob)
	if sql.ErrNoRows == err {
		return nil, false, nil
	} else if nil != err {
		return nil, false, classify(err)
	}
	return blob, true, nil
}

func (s *sqliteStore) Begin() (Transaction, error) {
	ctx := context.Background()

	conn, err := s.sqlDB.Conn(ctx)
	if nil != err {
		return nil, classify(err)
	}

	// take the write lock up front so that contention shows up here
	if _, err := conn.ExecContext(ctx, `BEGIN IMMEDIATE`); nil != err {
		_ = conn.Close()
		return nil, classify(err)
	}

	return &sqliteTransaction{
		store: s,
		conn:  conn,
	}, nil
}

func (s *sqliteStore) Keys() ([]Key, error) {
	rows, err := s.sqlDB.Query(`SELECT owner, scope FROM script_settings ORDER BY owner, scope`)
	if nil != err {
		return nil, classify(err)
	}
	defer rows.Close()

	keys := make([]Key, 0, 16)
	for rows.Next() {
		k := Key{}
		if err := rows.Scan(&k.Owner, &k.Scope); nil != err {
			return nil, classify(err)
		}
		keys = append(keys, k)
	}
	return keys, classify(rows.Err())
}

func (s *sqliteStore) Close() error {
	if nil == s.sqlDB {
		return nil
	}
	return s.sqlDB.Close()
}

func (t *sqliteTransaction) Put(owner string, scope string, blob []byte) error {
	if t.done {
		return fault.ErrStorageClosed
	}
	if err := validKey(owner, scope); nil != err {
		return err
	}
	if nil == blob {
		blob = []byte{}
	}

	_, err := t.conn.ExecContext(
		context.Background(),
		`INSERT INTO script_settings (owner, scope, blob, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(owner, scope) DO UPDATE SET
		    blob = excluded.blob,
		    updated_at = excluded.updated_at`,
		owner, scope, blob, time.Now().UTC().UnixNano()/int64(time.Millisecond),
	)
	if nil != err {
		return classify(err)
	}
	t.count += 1
	return nil
}

func (t *sqliteTransaction) Delete(owner string, scope string) error {
	if t.done {
		return fault.ErrStorageClosed
	}
	if err := validKey(owner, scope); nil != err {
		return err
	}

	_, err := t.conn.ExecContext(
		context.Background(),
		`DELETE FROM script_settings WHERE owner = ? AND scope = ?`,
		owner, scope,
	)
	if nil != err {
		return classify(err)
	}
	t.count += 1
	return nil
}

func (t *sqliteTransaction) Commit() error {
	if t.done {
		return fault.ErrStorageClosed
	}

	_, err := t.conn.ExecContext(context.Background(), `COMMIT`)
	err = classify(err)
	if fault.IsErrBusy(err) {
		// transaction is still open, caller may retry
		return err
	}
	if nil != err {
		t.Abort()
		return err
	}

	t.store.log.Debugf("committed: %d rows", t.count)
	t.done = true
	_ = t.conn.Close()
	return nil
}

func (t *sqliteTransaction) Abort() {
	if t.done {
		return
	}
	t.done = true
	_, _ = t.conn.ExecContext(context.Background(), `ROLLBACK`)
	_ = t.conn.Close()
}
