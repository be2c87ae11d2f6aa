// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uber-go/tally/v4"

	"github.com/bitmark-inc/scriptsettings/storage"
)

func writeConfiguration(t *testing.T, content string) (string, string) {
	dir, err := os.MkdirTemp("", "settingsd")
	if nil != err {
		t.Fatalf("temp dir error: %s", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(dir)
	})

	fileName := filepath.Join(dir, "settingsd.conf")
	err = os.WriteFile(fileName, []byte(content), 0600)
	if nil != err {
		t.Fatalf("write error: %s", err)
	}
	return dir, fileName
}

func TestGetConfiguration(t *testing.T) {
	dir, fileName := writeConfiguration(t, `
local M = {}
M.data_directory = "."
M.pidfile = "settingsd.pid"
M.game = "MyGame"
M.character = "Alice"
M.scripts = { "hunt", "forage.lua", "/opt/scripts/fish.lua" }
M.settings = {
  flush_interval = "30s",
  retry_count = 3,
}
M.logging = {
  size = 4096,
  levels = { settings = "debug" },
}
return M
`)

	c, err := getConfiguration(fileName)
	assert.Nil(t, err, "configuration error")

	dir, _ = filepath.EvalSymlinks(dir)
	dataDirectory, _ := filepath.EvalSymlinks(c.DataDirectory)
	assert.Equal(t, dir, dataDirectory, "wrong data directory")

	assert.Equal(t, "MyGame", c.Game, "wrong game")
	assert.Equal(t, "Alice", c.Character, "wrong character")
	assert.Equal(t, filepath.Join(c.DataDirectory, "settingsd.pid"), c.PidFile, "wrong pid file")

	scripts := filepath.Join(c.DataDirectory, defaultScriptDirectory)
	assert.Equal(t, []string{
		filepath.Join(scripts, "hunt.lua"),
		filepath.Join(scripts, "forage.lua"),
		"/opt/scripts/fish.lua",
	}, c.Scripts, "wrong scripts")

	assert.Equal(t, storage.SQLite, c.Database.Backend, "wrong backend")
	assert.Equal(t, filepath.Join(c.DataDirectory, defaultDatabaseDirectory, defaultSQLiteDatabase), c.Database.Name, "wrong database")

	assert.Equal(t, "30s", c.Settings.FlushInterval, "wrong flush interval")
	assert.Equal(t, 3, c.Settings.RetryCount, "wrong retry count")
	assert.Equal(t, "100ms", c.Settings.RetryDelay, "default retry delay lost")

	assert.Equal(t, 4096, c.Logging.Size, "wrong log size")
	assert.Equal(t, defaultLogCount, c.Logging.Count, "default log count lost")
	assert.Equal(t, "debug", c.Logging.Levels["settings"], "wrong log level")

	_, err = os.Stat(filepath.Join(c.DataDirectory, defaultLogDirectory))
	assert.Nil(t, err, "log directory not created")
}

func TestGetConfigurationLevelDB(t *testing.T) {
	_, fileName := writeConfiguration(t, `
return {
  data_directory = ".",
  database = { backend = "LevelDB" },
}
`)

	c, err := getConfiguration(fileName)
	assert.Nil(t, err, "configuration error")
	assert.Equal(t, storage.LevelDB, c.Database.Backend, "wrong backend")
	assert.Equal(t, defaultLevelDBDatabase, filepath.Base(c.Database.Name), "default database name not switched")
}

func TestGetConfigurationErrors(t *testing.T) {
	items := []string{
		`return { }`,
		`return { data_directory = "/nonexistent/settingsd" }`,
		`return { data_directory = ".", database = { backend = "redis" } }`,
		`return { data_directory = ".", codec = "xml" }`,
		`return { data_directory = ".", database = { name = "sub/settings.db" } }`,
	}
	for i, content := range items {
		_, fileName := writeConfiguration(t, content)
		_, err := getConfiguration(fileName)
		assert.NotNil(t, err, "%d: invalid configuration accepted", i)
	}
}

func TestLogReporter(t *testing.T) {
	var reporter tally.StatsReporter = &logReporter{}
	assert.True(t, reporter.Capabilities().Reporting(), "reporter does not report")
	assert.False(t, reporter.Capabilities().Tagging(), "reporter claims tagging")
}

func TestScriptFilesFromDirectory(t *testing.T) {
	dir, fileName := writeConfiguration(t, `return { data_directory = "." }`)

	scripts := filepath.Join(dir, defaultScriptDirectory)
	assert.Nil(t, os.Mkdir(scripts, 0700), "mkdir error")
	for _, name := range []string{"hunt.lua", "forage.lua", "readme.txt"} {
		assert.Nil(t, os.WriteFile(filepath.Join(scripts, name), []byte("--"), 0600), "write error")
	}

	c, err := getConfiguration(fileName)
	assert.Nil(t, err, "configuration error")

	files, err := scriptFiles(c)
	assert.Nil(t, err, "script list error")
	assert.Equal(t, 2, len(files), "wrong script count: %v", files)
	assert.Equal(t, "forage.lua", filepath.Base(files[0]), "wrong order")
	assert.Equal(t, "hunt.lua", filepath.Base(files[1]), "wrong order")
}
