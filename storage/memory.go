// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sort"
	"sync"

	"github.com/bitmark-inc/scriptsettings/fault"
)

type memoryStore struct {
	sync.RWMutex
	rows   map[Key][]byte
	inUse  bool
	closed bool
}

type memoryTransaction struct {
	store   *memoryStore
	puts    map[Key][]byte
	deletes map[Key]struct{}
	done    bool
}

// NewMemory - a store that keeps rows in memory only
func NewMemory() Store {
	return &memoryStore{
		rows: make(map[Key][]byte),
	}
}

func (s *memoryStore) Get(owner string, scope string) ([]byte, bool, error) {
	if err := validKey(owner, scope); nil != err {
		return nil, false, err
	}

	s.RLock()
	defer s.RUnlock()

	if s.closed {
		return nil, false, fault.ErrStorageClosed
	}
	blob, ok := s.rows[Key{Owner: owner, Scope: scope}]
	if !ok {
		return nil, false, nil
	}
	return copyBytes(blob), true, nil
}

func (s *memoryStore) Begin() (Transaction, error) {
	s.Lock()
	defer s.Unlock()

	if s.closed {
		return nil, fault.ErrStorageClosed
	}
	if s.inUse {
		return nil, fault.ErrTransactionInUse
	}
	s.inUse = true

	return &memoryTransaction{
		store:   s,
		puts:    make(map[Key][]byte),
		deletes: make(map[Key]struct{}),
	}, nil
}

func (s *memoryStore) Keys() ([]Key, error) {
	s.RLock()
	defer s.RUnlock()

	if s.closed {
		return nil, fault.ErrStorageClosed
	}
	keys := make([]Key, 0, len(s.rows))
	for k := range s.rows {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Owner == keys[j].Owner {
			return keys[i].Scope < keys[j].Scope
		}
		return keys[i].Owner < keys[j].Owner
	})
	return keys, nil
}

func (s *memoryStore) Close() error {
	s.Lock()
	s.closed = true
	s.rows = nil
	s.Unlock()
	return nil
}

func (t *memoryTransaction) Put(owner string, scope string, blob []byte) error {
	if t.done {
		return fault.ErrStorageClosed
	}
	if err := validKey(owner, scope); nil != err {
		return err
	}
	k := Key{Owner: owner, Scope: scope}
	delete(t.deletes, k)
	t.puts[k] = copyBytes(blob)
	return nil
}

func (t *memoryTransaction) Delete(owner string, scope string) error {
	if t.done {
		return fault.ErrStorageClosed
	}
	if err := validKey(owner, scope); nil != err {
		return err
	}
	k := Key{Owner: owner, Scope: scope}
	delete(t.puts, k)
	t.deletes[k] = struct{}{}
	return nil
}

func (t *memoryTransaction) Commit() error {
	if t.done {
		return fault.ErrStorageClosed
	}

	s := t.store
	s.Lock()
	defer s.Unlock()

	t.done = true
	s.inUse = false

	if s.closed {
		return fault.ErrStorageClosed
	}
	for k, blob := range t.puts {
		s.rows[k] = blob
	}
	for k := range t.deletes {
		delete(s.rows, k)
	}
	return nil
}

func (t *memoryTransaction) Abort() {
	if t.done {
		return
	}
	t.done = true

	t.store.Lock()
	t.store.inUse = false
	t.store.Unlock()
}
