// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package settings

import (
	"fmt"
	"sort"

	"github.com/bitmark-inc/scriptsettings/codec"
	"github.com/bitmark-inc/scriptsettings/fault"
	"github.com/bitmark-inc/scriptsettings/storage"
	"github.com/bitmark-inc/scriptsettings/task"
)

// a changed dictionary waiting to be written
type staged struct {
	key         entryKey
	entry       *entry
	blob        []byte
	fingerprint codec.Fingerprint
}

// Flush - write every changed dictionary in one transaction, then
// drop the dictionaries of tasks that are no longer running
//
// a dictionary that could not be written stays changed and is tried
// again by the next flush; the returned error only reports that
// something was left unsaved
func (s *Settings) Flush() error {
	s.Lock()
	defer s.Unlock()

	timer := s.metrics.flushTime.Start()
	defer timer.Stop()

	s.metrics.flushes.Inc(1)

	pending, failed := s.stage()

	if len(pending) > 0 {
		written, err := s.commit(pending)
		if nil != err {
			failed += len(pending)
		} else {
			failed += len(pending) - len(written)
			for _, p := range written {
				p.entry.loaded = p.fingerprint
			}
			s.metrics.rowsWritten.Inc(int64(len(written)))
			s.log.Infof("flushed: %d of %d changed", len(written), len(pending))
		}
	}

	s.evict()

	if failed > 0 {
		s.metrics.writeFailures.Inc(int64(failed))
		return fmt.Errorf("%w: %d dictionaries not saved", fault.ErrPersistenceFailed, failed)
	}
	return nil
}

// stage - encode each entry and collect the ones whose fingerprint
// differs from the persisted one
//
// returns the number of entries that could not be encoded
func (s *Settings) stage() ([]staged, int) {
	pending := make([]staged, 0, len(s.entries))
	failed := 0
	for k, e := range s.entries {
		blob, err := s.codec.Encode(e.data)
		if nil != err {
			s.log.Errorf("encode: owner: %s  scope: %q  error: %s", k.owner, k.scope, err)
			failed += 1
			continue
		}
		fingerprint := codec.FingerprintOf(blob)
		if fingerprint == e.loaded {
			continue
		}
		pending = append(pending, staged{
			key:         k,
			entry:       e,
			blob:        blob,
			fingerprint: fingerprint,
		})
	}

	// stable write order
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].key.owner == pending[j].key.owner {
			return pending[i].key.scope < pending[j].key.scope
		}
		return pending[i].key.owner < pending[j].key.owner
	})
	return pending, failed
}

// commit - write all staged rows in a single transaction
//
// a row whose Put fails is skipped; the returned list contains only
// rows that are durable
func (s *Settings) commit(pending []staged) ([]staged, error) {
	var trx storage.Transaction
	err := s.retry.do(func() error {
		var err error
		trx, err = s.store.Begin()
		return err
	})
	if nil != err {
		s.log.Errorf("begin transaction: error: %s", err)
		return nil, err
	}

	written := make([]staged, 0, len(pending))
	for _, p := range pending {
		err := s.retry.do(func() error {
			return trx.Put(string(p.key.owner), string(p.key.scope), p.blob)
		})
		if nil != err {
			s.log.Errorf("write: owner: %s  scope: %q  error: %s", p.key.owner, p.key.scope, err)
			continue
		}
		written = append(written, p)
	}

	if 0 == len(written) {
		trx.Abort()
		return nil, nil
	}

	err = s.retry.do(trx.Commit)
	if nil != err {
		trx.Abort()
		s.log.Errorf("commit: rows: %d  error: %s", len(written), err)
		return nil, err
	}
	return written, nil
}

// evict - remove the clean entries of owners that are not running
func (s *Settings) evict() {
	running := make(map[task.ID]bool)
	evicted := 0
	for k, e := range s.entries {
		alive, ok := running[k.owner]
		if !ok {
			alive = s.tasks.Running(k.owner)
			running[k.owner] = alive
		}
		if alive || s.dirty(e) {
			continue
		}
		delete(s.entries, k)
		evicted += 1
		s.log.Debugf("evicted: owner: %s  scope: %q", k.owner, k.scope)
	}

	if evicted > 0 {
		s.metrics.evictions.Inc(int64(evicted))
	}
	s.metrics.entries.Update(float64(len(s.entries)))
}
