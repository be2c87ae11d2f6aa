// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package settings_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/uber-go/tally/v4"

	"github.com/bitmark-inc/scriptsettings/codec"
	"github.com/bitmark-inc/scriptsettings/session"
	"github.com/bitmark-inc/scriptsettings/settings"
	"github.com/bitmark-inc/scriptsettings/storage"
	"github.com/bitmark-inc/scriptsettings/task"
)

const (
	dir         = "testing"
	logCategory = "testing"

	testGame      = "MyGame"
	testCharacter = "Alice"
)

func setupTestLogger() {
	removeFiles()
	_ = os.Mkdir(dir, 0700)

	logging := logger.Configuration{
		Directory: dir,
		File:      fmt.Sprintf("%s.log", logCategory),
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

func teardownTestLogger() {
	logger.Finalise()
	removeFiles()
}

func removeFiles() {
	err := os.RemoveAll(dir)
	if nil != err {
		fmt.Println("remove dir with error: ", err)
	}
}

// everything a test needs around one Settings
type fixture struct {
	settings *settings.Settings
	store    storage.Store
	codec    codec.Codec
	tasks    *task.Registry
	session  *session.State
	metrics  tally.TestScope
}

func testConfiguration() settings.Configuration {
	return settings.Configuration{
		FlushInterval: "1h",
		RetryCount:    2,
		RetryDelay:    "1ms",
	}
}

func newFixture(t *testing.T, store storage.Store) *fixture {
	return newFixtureWithRegistry(t, store, task.NewRegistry())
}

func newFixtureWithRegistry(t *testing.T, store storage.Store, tasks *task.Registry) *fixture {
	c, err := codec.New(codec.CBOR)
	if nil != err {
		t.Fatalf("codec error: %s", err)
	}

	f := &fixture{
		store:   store,
		codec:   c,
		tasks:   tasks,
		session: session.New(testGame, testCharacter),
		metrics: tally.NewTestScope("", nil),
	}

	f.settings, err = settings.New(testConfiguration(), settings.Collaborators{
		Store:    f.store,
		Codec:    f.codec,
		Tasks:    f.tasks,
		Identity: f.session,
		Metrics:  f.metrics,
	})
	if nil != err {
		t.Fatalf("new settings error: %s", err)
	}
	return f
}

// register a running task and return its context
func (f *fixture) start(t *testing.T, id task.ID) (context.Context, func()) {
	ctx, finish, err := f.tasks.Start(context.Background(), id)
	if nil != err {
		t.Fatalf("start task %s error: %s", id, err)
	}
	return ctx, finish
}

// the dictionary persisted for a row
func (f *fixture) persisted(t *testing.T, owner string, scope settings.Scope) (settings.Data, bool) {
	blob, found, err := f.store.Get(owner, string(scope))
	if nil != err {
		t.Fatalf("store get error: %s", err)
	}
	if !found {
		return nil, false
	}
	data, err := f.codec.Decode(blob)
	if nil != err {
		t.Fatalf("decode error: %s", err)
	}
	return data, true
}

func (f *fixture) counter(name string) int64 {
	for _, c := range f.metrics.Snapshot().Counters() {
		if name == c.Name() {
			return c.Value()
		}
	}
	return 0
}

func (f *fixture) gauge(name string) float64 {
	for _, g := range f.metrics.Snapshot().Gauges() {
		if name == g.Name() {
			return g.Value()
		}
	}
	return 0
}
