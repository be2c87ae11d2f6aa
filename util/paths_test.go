// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/scriptsettings/util"
)

func TestEnsureAbsolute(t *testing.T) {
	items := []struct {
		directory string
		path      string
		expected  string
	}{
		{"/data", "log", "/data/log"},
		{"/data/", "./scripts/../scripts/hunt.lua", "/data/scripts/hunt.lua"},
		{"/data", "/var/log", "/var/log"},
		{"/data", "/var//log/", "/var/log"},
	}
	for i, item := range items {
		actual := util.EnsureAbsolute(item.directory, item.path)
		assert.Equal(t, item.expected, actual, "%d: wrong path", i)
	}
}

func TestFilesWithExtension(t *testing.T) {
	dir, err := os.MkdirTemp("", "util")
	if nil != err {
		t.Fatalf("temp dir error: %s", err)
	}
	defer os.RemoveAll(dir)

	for _, name := range []string{"b.lua", "a.lua", "C.LUA", "notes.txt", ".hidden.lua"} {
		err := os.WriteFile(filepath.Join(dir, name), []byte("--"), 0600)
		assert.Nil(t, err, "write error")
	}
	assert.Nil(t, os.Mkdir(filepath.Join(dir, "sub.lua"), 0700), "mkdir error")

	files, err := util.FilesWithExtension(dir, ".lua")
	assert.Nil(t, err, "list error")
	assert.Equal(t, []string{
		filepath.Join(dir, "C.LUA"),
		filepath.Join(dir, "a.lua"),
		filepath.Join(dir, "b.lua"),
	}, files, "wrong files")

	assert.True(t, util.EnsureFileExists(files[0]), "file not found")
	assert.False(t, util.EnsureFileExists(filepath.Join(dir, "sub.lua")), "directory counted as file")
	assert.False(t, util.EnsureFileExists(filepath.Join(dir, "missing.lua")), "missing file found")

	_, err = util.FilesWithExtension(filepath.Join(dir, "missing"), ".lua")
	assert.NotNil(t, err, "missing directory accepted")
}
