// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/scriptsettings/fault"
	"github.com/bitmark-inc/scriptsettings/session"
	"github.com/bitmark-inc/scriptsettings/settings"
	"github.com/bitmark-inc/scriptsettings/task"
)

// common errors - keep in alphabetic order
const (
	ErrMissingArguments = fault.InvalidError("missing arguments")
	ErrNotFoundKey      = fault.NotFoundError("key not found")
	ErrNotFoundRow      = fault.NotFoundError("owner/scope not found")
)

func runList(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	keys, err := m.store.Keys()
	if nil != err {
		return err
	}

	for _, k := range keys {
		fmt.Fprintf(m.w, "%-20s  %q\n", k.Owner, k.Scope)
	}
	if m.verbose {
		fmt.Fprintf(m.e, "rows: %d\n", len(keys))
	}
	return nil
}

func runShow(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	if len(c.Args()) < 2 {
		return ErrMissingArguments
	}

	data, err := m.load(c.Args().Get(0), c.Args().Get(1))
	if nil != err {
		return err
	}
	return printJson(m.w, data)
}

func runGet(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	if len(c.Args()) < 3 {
		return ErrMissingArguments
	}

	data, err := m.load(c.Args().Get(0), c.Args().Get(1))
	if nil != err {
		return err
	}

	value, ok := data[c.Args().Get(2)]
	if !ok {
		return ErrNotFoundKey
	}
	return printJson(m.w, value)
}

func runSet(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	if len(c.Args()) < 4 {
		return ErrMissingArguments
	}
	key := c.Args().Get(2)
	value := parseValue(c.Args().Get(3))

	return m.edit(c.Args().Get(0), c.Args().Get(1), func(data settings.Data) error {
		data[key] = value
		return nil
	})
}

func runDelete(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	if len(c.Args()) < 2 {
		return ErrMissingArguments
	}
	owner := c.Args().Get(0)
	scope := c.Args().Get(1)

	// whole dictionary
	if len(c.Args()) < 3 {
		trx, err := m.store.Begin()
		if nil != err {
			return err
		}
		err = trx.Delete(owner, scope)
		if nil != err {
			trx.Abort()
			return err
		}
		return trx.Commit()
	}

	key := c.Args().Get(2)
	return m.edit(owner, scope, func(data settings.Data) error {
		if _, ok := data[key]; !ok {
			return ErrNotFoundKey
		}
		delete(data, key)
		return nil
	})
}

// the stored dictionary of a row
func (m *metadata) load(owner string, scope string) (map[string]interface{}, error) {
	blob, found, err := m.store.Get(owner, scope)
	if nil != err {
		return nil, err
	}
	if !found {
		return nil, ErrNotFoundRow
	}
	return m.codec.Decode(blob)
}

// change a stored dictionary the same way a running script would:
// as its owner, through the settings cache, then save
func (m *metadata) edit(owner string, scope string, f func(settings.Data) error) error {

	game, character := scopeIdentity(scope)

	tasks := task.NewRegistry()
	ctx, finish, err := tasks.Start(context.Background(), task.ID(owner))
	if nil != err {
		return err
	}
	defer finish()

	s, err := settings.New(settings.DefaultConfiguration(), settings.Collaborators{
		Store:    m.store,
		Codec:    m.codec,
		Tasks:    tasks,
		Identity: session.New(game, character),
	})
	if nil != err {
		return err
	}

	err = s.Update(ctx, settings.Scope(scope), f)
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "saving: %s  %q\n", owner, scope)
	}
	return s.Save()
}

// the game and character that make a scope valid
func scopeIdentity(scope string) (string, string) {
	if string(settings.Global) == scope {
		return "", ""
	}
	n := strings.Index(scope, ":")
	if n < 0 {
		return scope, ""
	}
	return scope[:n], scope[n+1:]
}
