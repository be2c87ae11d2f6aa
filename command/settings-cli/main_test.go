// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type harness struct {
	database string
}

func newHarness(t *testing.T) *harness {
	dir, err := os.MkdirTemp("", "settings-cli")
	if nil != err {
		t.Fatalf("temp dir error: %s", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(dir)
	})
	return &harness{
		database: filepath.Join(dir, "settings.sqlite3"),
	}
}

// run one command and return its standard output
func (h *harness) run(t *testing.T, arguments ...string) (string, error) {
	var w, e bytes.Buffer
	app := newApp(&w, &e)
	args := append([]string{"settings-cli", "--database", h.database}, arguments...)
	err := app.Run(args)
	return w.String(), err
}

func TestSetGetShow(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "set", "hunt", "MyGame", "auto_attack", "true")
	assert.Nil(t, err, "set error")
	_, err = h.run(t, "set", "hunt", "MyGame", "targets", `["orc", "troll"]`)
	assert.Nil(t, err, "set error")
	_, err = h.run(t, "set", "hunt", "MyGame:Alice", "greeting", "hello there")
	assert.Nil(t, err, "set error")

	out, err := h.run(t, "get", "hunt", "MyGame", "auto_attack")
	assert.Nil(t, err, "get error")
	assert.Equal(t, "true\n", out, "wrong value")

	out, err = h.run(t, "get", "hunt", "MyGame:Alice", "greeting")
	assert.Nil(t, err, "get error")
	assert.Equal(t, "\"hello there\"\n", out, "wrong value")

	out, err = h.run(t, "show", "hunt", "MyGame")
	assert.Nil(t, err, "show error")
	assert.Equal(t, "{\n  \"auto_attack\": true,\n  \"targets\": [\n    \"orc\",\n    \"troll\"\n  ]\n}\n", out, "wrong dictionary")

	out, err = h.run(t, "list")
	assert.Nil(t, err, "list error")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, 2, len(lines), "wrong row count: %q", out)

	_, err = h.run(t, "get", "hunt", "MyGame", "missing")
	assert.Equal(t, ErrNotFoundKey, err, "missing key found")

	_, err = h.run(t, "show", "forage", "MyGame")
	assert.Equal(t, ErrNotFoundRow, err, "missing row found")
}

func TestDelete(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "set", "hunt", ":", "a", "1")
	assert.Nil(t, err, "set error")
	_, err = h.run(t, "set", "hunt", ":", "b", "2")
	assert.Nil(t, err, "set error")

	_, err = h.run(t, "delete", "hunt", ":", "a")
	assert.Nil(t, err, "delete key error")

	out, err := h.run(t, "show", "hunt", ":")
	assert.Nil(t, err, "show error")
	assert.Equal(t, "{\n  \"b\": 2\n}\n", out, "key not deleted")

	_, err = h.run(t, "delete", "hunt", ":", "a")
	assert.Equal(t, ErrNotFoundKey, err, "deleted key twice")

	_, err = h.run(t, "delete", "hunt", ":")
	assert.Nil(t, err, "delete row error")

	_, err = h.run(t, "show", "hunt", ":")
	assert.Equal(t, ErrNotFoundRow, err, "row not deleted")
}

func TestMissingArguments(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "set", "hunt", ":", "a")
	assert.Equal(t, ErrMissingArguments, err, "set without value")

	_, err = h.run(t, "get", "hunt")
	assert.Equal(t, ErrMissingArguments, err, "get without scope")
}

func TestVersionNeedsNoDatabase(t *testing.T) {
	var w, e bytes.Buffer
	app := newApp(&w, &e)
	err := app.Run([]string{"settings-cli", "version"})
	assert.Nil(t, err, "version error")
	assert.Equal(t, version+"\n", w.String(), "wrong version")
}

func TestParseValue(t *testing.T) {
	items := []struct {
		text  string
		value interface{}
	}{
		{"true", true},
		{"42", int64(42)},
		{"-3", int64(-3)},
		{"2.5", 2.5},
		{`"quoted"`, "quoted"},
		{"plain text", "plain text"},
		{"null", nil},
		{`[1, "a"]`, []interface{}{int64(1), "a"}},
		{`{"n": 7}`, map[string]interface{}{"n": int64(7)}},
	}
	for i, item := range items {
		assert.Equal(t, item.value, parseValue(item.text), "%d: wrong value for %q", i, item.text)
	}
}

func TestScopeIdentity(t *testing.T) {
	items := []struct {
		scope     string
		game      string
		character string
	}{
		{":", "", ""},
		{"MyGame", "MyGame", ""},
		{"MyGame:Alice", "MyGame", "Alice"},
	}
	for i, item := range items {
		game, character := scopeIdentity(item.scope)
		assert.Equal(t, item.game, game, "%d: wrong game", i)
		assert.Equal(t, item.character, character, "%d: wrong character", i)
	}
}
