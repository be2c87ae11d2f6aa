// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package script - run Lua scripts as settings owners
//
// Each script runs in its own Lua state as a task named after the
// file (without the ".lua" extension) and sees these globals:
//
//   Settings        global scope
//   GameSettings    scope of the active game
//   CharSettings    scope of the active character
//
// each with the functions:
//
//   get(key)         value or nil
//   set(key, value)  store a value, nil removes the key
//   delete(key)      remove a key
//   save()           flush now
//   table()          copy of the whole dictionary
//
// Settings.table(scope) also accepts an explicit scope string.
//
//   pause(seconds)   sleep, ends early when the host shuts down
//
// Lua numbers with no fractional part are stored as integers; tables
// whose keys are 1..n become arrays, all other tables become
// dictionaries with string keys.
package script
