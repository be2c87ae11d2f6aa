// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package settings

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/uber-go/tally/v4"

	"github.com/bitmark-inc/scriptsettings/background"
	"github.com/bitmark-inc/scriptsettings/codec"
	"github.com/bitmark-inc/scriptsettings/fault"
	"github.com/bitmark-inc/scriptsettings/session"
	"github.com/bitmark-inc/scriptsettings/storage"
	"github.com/bitmark-inc/scriptsettings/task"
)

// Data - one settings dictionary
type Data = map[string]interface{}

// Collaborators - the services a Settings instance depends on
//
// Metrics is optional
type Collaborators struct {
	Store    storage.Store
	Codec    codec.Codec
	Tasks    task.Tracker
	Identity session.Identity
	Metrics  tally.Scope
}

type entryKey struct {
	owner task.ID
	scope Scope
}

// entry - a loaded dictionary and the fingerprint of its last
// persisted (or loaded) form
type entry struct {
	data   Data
	loaded codec.Fingerprint
}

// Settings - the scope cache and its flusher
type Settings struct {
	sync.Mutex

	log      *logger.L
	store    storage.Store
	codec    codec.Codec
	tasks    task.Tracker
	identity session.Identity
	metrics  metrics

	interval time.Duration
	retry    retryPolicy

	entries    map[entryKey]*entry
	background *background.T
}

// New - create a settings cache over a store
func New(configuration Configuration, collaborators Collaborators) (*Settings, error) {
	if nil == collaborators.Store || nil == collaborators.Codec ||
		nil == collaborators.Tasks || nil == collaborators.Identity {
		return nil, fault.ErrMissingCollaborator
	}

	t, err := configuration.timing()
	if nil != err {
		return nil, err
	}

	m := collaborators.Metrics
	if nil == m {
		m = tally.NoopScope
	}

	log := logger.New("settings")
	log.Infof("codec: %s  flush interval: %s  retries: %d", collaborators.Codec.Name(), t.interval, t.retry.count)

	return &Settings{
		log:      log,
		store:    collaborators.Store,
		codec:    collaborators.Codec,
		tasks:    collaborators.Tasks,
		identity: collaborators.Identity,
		metrics:  newMetrics(m),
		interval: t.interval,
		retry:    t.retry,
		entries:  make(map[entryKey]*entry),
	}, nil
}

// Read - the value stored under key, nil if the key is absent
func (s *Settings) Read(ctx context.Context, scope Scope, key string) (interface{}, error) {
	s.Lock()
	defer s.Unlock()

	e, err := s.access(ctx, scope)
	if nil != err {
		return nil, err
	}
	return e.data[key], nil
}

// Write - set a value, persisted by the next flush
func (s *Settings) Write(ctx context.Context, scope Scope, key string, value interface{}) error {
	s.Lock()
	defer s.Unlock()

	e, err := s.access(ctx, scope)
	if nil != err {
		return err
	}
	e.data[key] = value
	return nil
}

// Snapshot - the live dictionary of a scope
//
// changes made through the returned map are persisted like writes,
// but they are not coordinated with other goroutines of the same
// task; use Update for that
func (s *Settings) Snapshot(ctx context.Context, scope Scope) (Data, error) {
	s.Lock()
	defer s.Unlock()

	e, err := s.access(ctx, scope)
	if nil != err {
		return nil, err
	}
	return e.data, nil
}

// Update - modify the dictionary of a scope under the settings lock
//
// f must not call back into s
func (s *Settings) Update(ctx context.Context, scope Scope, f func(Data) error) error {
	s.Lock()
	defer s.Unlock()

	e, err := s.access(ctx, scope)
	if nil != err {
		return err
	}
	return f(e.data)
}

// Save - flush now instead of waiting for the timer
func (s *Settings) Save() error {
	return s.Flush()
}

// Forget - drop the unchanged dictionaries of an owner so that the
// next access reloads them from storage
//
// returns the number of dictionaries dropped
func (s *Settings) Forget(owner task.ID) int {
	s.Lock()
	defer s.Unlock()

	n := 0
	for k, e := range s.entries {
		if k.owner != owner {
			continue
		}
		if s.dirty(e) {
			continue
		}
		delete(s.entries, k)
		n += 1
	}
	s.metrics.entries.Update(float64(len(s.entries)))
	return n
}

// Start - launch the periodic flusher
func (s *Settings) Start() error {
	s.Lock()
	defer s.Unlock()

	if nil != s.background {
		return fault.ErrAlreadyInitialised
	}

	processes := background.Processes{
		&flusher{
			log:      logger.New("flusher"),
			interval: s.interval,
			settings: s,
		},
	}
	s.background = background.Start(processes, nil)
	return nil
}

// Stop - halt the flusher and write any outstanding changes
func (s *Settings) Stop() error {
	s.Lock()
	bg := s.background
	s.background = nil
	s.Unlock()

	if nil == bg {
		return fault.ErrNotInitialised
	}
	bg.Stop()

	s.log.Info("final flush…")
	return s.Flush()
}

// resolve the calling task and load its dictionary for scope
//
// lock must be held
func (s *Settings) access(ctx context.Context, scope Scope) (*entry, error) {
	owner, ok := task.FromContext(ctx)
	if !ok {
		return nil, fault.ErrNoCurrentTask
	}
	if err := validScope(scope, s.identity); nil != err {
		return nil, err
	}
	return s.load(owner, scope)
}

// load - the cached entry or a fresh one read from storage
//
// lock must be held
func (s *Settings) load(owner task.ID, scope Scope) (*entry, error) {
	k := entryKey{owner: owner, scope: scope}
	if e, ok := s.entries[k]; ok {
		return e, nil
	}

	var blob []byte
	found := false
	err := s.retry.do(func() error {
		var err error
		blob, found, err = s.store.Get(string(owner), string(scope))
		return err
	})
	if nil != err {
		s.log.Errorf("load: owner: %s  scope: %q  error: %s", owner, scope, err)
		return nil, fmt.Errorf("load %s %q: %w", owner, scope, err)
	}

	data := Data{}
	if found {
		data, err = s.codec.Decode(blob)
		if nil != err {
			s.metrics.decodeFailures.Inc(1)
			s.log.Errorf("decode: owner: %s  scope: %q  error: %s", owner, scope, err)
			return nil, err
		}
	}

	// fingerprint of the re-encoded form so that a blob written by
	// another codec version does not count as a change
	encoded, err := s.codec.Encode(data)
	if nil != err {
		s.log.Errorf("encode: owner: %s  scope: %q  error: %s", owner, scope, err)
		return nil, err
	}

	e := &entry{
		data:   data,
		loaded: codec.FingerprintOf(encoded),
	}
	s.entries[k] = e

	s.metrics.loads.Inc(1)
	s.metrics.entries.Update(float64(len(s.entries)))
	s.log.Debugf("loaded: owner: %s  scope: %q  found: %t  keys: %d", owner, scope, found, len(data))

	return e, nil
}

// dirty - true if the dictionary differs from its persisted form or
// cannot be encoded
//
// lock must be held
func (s *Settings) dirty(e *entry) bool {
	blob, err := s.codec.Encode(e.data)
	if nil != err {
		return true
	}
	return codec.FingerprintOf(blob) != e.loaded
}
