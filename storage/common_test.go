// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/scriptsettings/storage"
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

// database file name for a backend
func databasePath(backend string) string {
	return filepath.Join(dir, "settings-"+backend+".db")
}

// open a fresh store; the logger must be set up first
func openStore(t *testing.T, backend string) storage.Store {
	s, err := storage.Open(backend, databasePath(backend), false)
	if nil != err {
		t.Fatalf("%s: open error: %s", backend, err)
	}
	return s
}

var allBackends = []string{storage.Memory, storage.LevelDB, storage.SQLite}
var durableBackends = []string{storage.LevelDB, storage.SQLite}
