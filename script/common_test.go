// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package script_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/scriptsettings/codec"
	"github.com/bitmark-inc/scriptsettings/script"
	"github.com/bitmark-inc/scriptsettings/session"
	"github.com/bitmark-inc/scriptsettings/settings"
	"github.com/bitmark-inc/scriptsettings/storage"
	"github.com/bitmark-inc/scriptsettings/task"
)

const (
	dir         = "testing"
	logCategory = "testing"
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

type fixture struct {
	store    storage.Store
	tasks    *task.Registry
	session  *session.State
	settings *settings.Settings
	runner   *script.Runner
}

func newFixture(t *testing.T) *fixture {
	c, err := codec.New("")
	if nil != err {
		t.Fatalf("codec error: %s", err)
	}

	f := &fixture{
		store:   storage.NewMemory(),
		tasks:   task.NewRegistry(),
		session: session.New("MyGame", "Alice"),
	}
	f.settings, err = settings.New(settings.DefaultConfiguration(), settings.Collaborators{
		Store:    f.store,
		Codec:    c,
		Tasks:    f.tasks,
		Identity: f.session,
	})
	if nil != err {
		t.Fatalf("settings error: %s", err)
	}

	f.runner, err = script.NewRunner(f.settings, f.tasks)
	if nil != err {
		t.Fatalf("runner error: %s", err)
	}
	return f
}
