// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package script

import (
	"context"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/bitmark-inc/scriptsettings/settings"
)

// register - install the settings globals into a Lua state
//
// ctx carries the task identity used by every call
func register(ctx context.Context, L *lua.LState, s *settings.Settings) {
	global := settings.Global(s)

	globalTable := scopeTable(ctx, L, global)
	globalTable.RawSetString("table", L.NewFunction(func(L *lua.LState) int {
		scope := global.Scope()
		if L.GetTop() >= 1 {
			scope = settings.Scope(L.CheckString(1))
		}
		data, err := s.Snapshot(ctx, scope)
		if nil != err {
			L.RaiseError("%s", err)
			return 0
		}
		L.Push(toLua(L, data))
		return 1
	}))

	L.SetGlobal("Settings", globalTable)
	L.SetGlobal("GameSettings", scopeTable(ctx, L, settings.Game(s)))
	L.SetGlobal("CharSettings", scopeTable(ctx, L, settings.Character(s)))

	L.SetGlobal("pause", L.NewFunction(func(L *lua.LState) int {
		seconds := float64(L.OptNumber(1, 1))
		timer := time.NewTimer(time.Duration(seconds * float64(time.Second)))
		defer timer.Stop()
		select {
		case <-ctx.Done():
			L.RaiseError("%s", ctx.Err())
		case <-timer.C:
		}
		return 0
	}))
}

func scopeTable(ctx context.Context, L *lua.LState, sc *settings.Scoped) *lua.LTable {
	t := L.NewTable()
	L.SetFuncs(t, map[string]lua.LGFunction{
		"get": func(L *lua.LState) int {
			value, err := sc.Read(ctx, L.CheckString(1))
			if nil != err {
				L.RaiseError("%s", err)
				return 0
			}
			L.Push(toLua(L, value))
			return 1
		},
		"set": func(L *lua.LState) int {
			key := L.CheckString(1)
			value, err := toGo(L.Get(2))
			if nil != err {
				L.ArgError(2, err.Error())
				return 0
			}
			if nil == value {
				err = remove(ctx, sc, key)
			} else {
				err = sc.Write(ctx, key, value)
			}
			if nil != err {
				L.RaiseError("%s", err)
			}
			return 0
		},
		"delete": func(L *lua.LState) int {
			err := remove(ctx, sc, L.CheckString(1))
			if nil != err {
				L.RaiseError("%s", err)
			}
			return 0
		},
		"save": func(L *lua.LState) int {
			err := sc.Save()
			L.Push(lua.LBool(nil == err))
			return 1
		},
		"table": func(L *lua.LState) int {
			data, err := sc.Snapshot(ctx)
			if nil != err {
				L.RaiseError("%s", err)
				return 0
			}
			L.Push(toLua(L, data))
			return 1
		},
	})
	return t
}

func remove(ctx context.Context, sc *settings.Scoped, key string) error {
	return sc.Update(ctx, func(data settings.Data) error {
		delete(data, key)
		return nil
	})
}
