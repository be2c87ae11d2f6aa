// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/scriptsettings/fault"
)

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const (
	currentLevelDBVersion = 0x100
	settingsPrefix        = 'S'
	keySeparator          = 0x00
)

type levelDBStore struct {
	sync.Mutex
	log   *logger.L
	db    *leveldb.DB
	cache *blobCache
	inUse bool
}

type levelDBTransaction struct {
	store *levelDBStore
	batch *leveldb.Batch
	ops   map[string]cacheData
	done  bool
}

func openLevelDB(path string, readOnly bool) (Store, error) {
	log := logger.New("storage")

	db, version, err := getDB(path, readOnly)
	if nil != err {
		return nil, err
	}

	// ensure no database downgrade
	if version > currentLevelDBVersion {
		log.Criticalf("database version: %d > current version: %d", version, currentLevelDBVersion)
		db.Close()
		return nil, fault.ErrDatabaseVersion
	}

	if 0 == version && !readOnly {
		// database was empty so tag as current version
		if err := putVersion(db, currentLevelDBVersion); nil != err {
			db.Close()
			return nil, err
		}
	}

	log.Infof("opened leveldb: %s  version: %d", path, version)

	return &levelDBStore{
		log:   log,
		db:    db,
		cache: newBlobCache(),
	}, nil
}

// return:
//   database handle
//   version number
func getDB(name string, readOnly bool) (*leveldb.DB, int, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(name, opt)
	if nil != err {
		return nil, 0, err
	}

	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return db, 0, nil
	} else if nil != err {
		db.Close()
		return nil, 0, err
	}

	if 4 != len(versionValue) {
		db.Close()
		return nil, 0, fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(versionValue))
	}

	version := int(binary.BigEndian.Uint32(versionValue))
	return db, version, nil
}

func putVersion(db *leveldb.DB, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))

	return db.Put(versionKey, currentVersion, nil)
}

// 'S' ++ owner ++ 0x00 ++ scope
func rowKey(owner string, scope string) []byte {
	k := make([]byte, 0, len(owner)+len(scope)+2)
	k = append(k, settingsPrefix)
	k = append(k, owner...)
	k = append(k, keySeparator)
	return append(k, scope...)
}

func splitRowKey(k []byte) (Key, bool) {
	if len(k) < 3 || settingsPrefix != k[0] {
		return Key{}, false
	}
	n := bytes.IndexByte(k[1:], keySeparator)
	if n < 0 {
		return Key{}, false
	}
	return Key{
		Owner: string(k[1 : n+1]),
		Scope: string(k[n+2:]),
	}, true
}

func (s *levelDBStore) Get(owner string, scope string) ([]byte, bool, error) {
	if err := validKey(owner, scope); nil != err {
		return nil, false, err
	}
	k := rowKey(owner, scope)

	if blob, found, known := s.cache.Get(string(k)); known {
		return blob, found, nil
	}

	blob, err := s.db.Get(k, nil)
	if leveldb.ErrNotFound == err {
		return nil, false, nil
	} else if leveldb.ErrClosed == err {
		return nil, false, fault.ErrStorageClosed
	} else if nil != err {
		return nil, false, err
	}
	return blob, true, nil
}

func (s *levelDBStore) Begin() (Transaction, error) {
	s.Lock()
	defer s.Unlock()

	if s.inUse {
		return nil, fault.ErrTransactionInUse
	}
	s.inUse = true

	return &levelDBTransaction{
		store: s,
		batch: new(leveldb.Batch),
		ops:   make(map[string]cacheData),
	}, nil
}

func (s *levelDBStore) Keys() ([]Key, error) {
	iter := s.db.NewIterator(ldb_util.BytesPrefix([]byte{settingsPrefix}), nil)
	defer iter.Release()

	keys := make([]Key, 0, 16)
	for iter.Next() {
		if k, ok := splitRowKey(iter.Key()); ok {
			keys = append(keys, k)
		}
	}
	if err := iter.Error(); nil != err {
		return nil, err
	}
	return keys, nil
}

func (s *levelDBStore) Close() error {
	s.Lock()
	defer s.Unlock()

	s.cache.Clear()
	err := s.db.Close()
	if leveldb.ErrClosed == err {
		return nil
	}
	return err
}

func (s *levelDBStore) release() {
	s.Lock()
	s.inUse = false
	s.Unlock()
}

func (t *levelDBTransaction) Put(owner string, scope string, blob []byte) error {
	if t.done {
		return fault.ErrStorageClosed
	}
	if err := validKey(owner, scope); nil != err {
		return err
	}
	k := rowKey(owner, scope)
	t.batch.Put(k, blob)
	t.ops[string(k)] = cacheData{op: dbPut, value: blob}
	return nil
}

func (t *levelDBTransaction) Delete(owner string, scope string) error {
	if t.done {
		return fault.ErrStorageClosed
	}
	if err := validKey(owner, scope); nil != err {
		return err
	}
	k := rowKey(owner, scope)
	t.batch.Delete(k)
	t.ops[string(k)] = cacheData{op: dbDelete}
	return nil
}

func (t *levelDBTransaction) Commit() error {
	if t.done {
		return fault.ErrStorageClosed
	}

	err := t.store.db.Write(t.batch, &ldb_opt.WriteOptions{Sync: true})
	if leveldb.ErrClosed == err {
		err = fault.ErrStorageClosed
	}
	if nil == err {
		for k, d := range t.ops {
			t.store.cache.Set(d.op, k, d.value)
		}
		t.store.log.Debugf("committed: %d rows", len(t.ops))
	}

	t.finish()
	return err
}

func (t *levelDBTransaction) Abort() {
	if t.done {
		return
	}
	t.finish()
}

func (t *levelDBTransaction) finish() {
	t.batch.Reset()
	t.ops = nil
	t.done = true
	t.store.release()
}
