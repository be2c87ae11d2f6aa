// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"strings"

	"github.com/bitmark-inc/scriptsettings/fault"
)

// names of the backends
const (
	LevelDB = "leveldb"
	Memory  = "memory"
	SQLite  = "sqlite"
)

// Key - identifies one row
type Key struct {
	Owner string
	Scope string
}

// Store - key-blob persistence keyed by (owner, scope)
type Store interface {
	// absent rows return found == false and no error
	Get(owner string, scope string) (blob []byte, found bool, err error)
	Begin() (Transaction, error)
	Keys() ([]Key, error)
	Close() error
}

// Transaction - a set of row changes committed together
//
// Commit may be retried after a busy error; after any other Commit
// error or after Abort the transaction is finished
type Transaction interface {
	Put(owner string, scope string, blob []byte) error
	Delete(owner string, scope string) error
	Commit() error
	Abort()
}

// Open - open a store of the given backend at path
//
// path is ignored by the memory backend
func Open(backend string, path string, readOnly bool) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", SQLite:
		return openSQLite(path, readOnly)
	case LevelDB:
		return openLevelDB(path, readOnly)
	case Memory:
		return NewMemory(), nil
	default:
		return nil, fault.ErrInvalidBackend
	}
}

func validKey(owner string, scope string) error {
	if "" == strings.TrimSpace(owner) || "" == scope {
		return fault.ErrInvalidKey
	}
	if strings.IndexByte(owner, 0) >= 0 || strings.IndexByte(scope, 0) >= 0 {
		return fault.ErrInvalidKey
	}
	return nil
}
