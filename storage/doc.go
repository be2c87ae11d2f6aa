// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - durable store for settings blobs
//
// one row per (owner, scope) holding an opaque blob
//
// Backends:
//
//   sqlite   - table script_settings(owner, scope, blob, updated_at)
//              primary key (owner, scope), PRAGMA user_version = format version
//
//   leveldb  - key:  'S' ++ owner ++ 0x00 ++ scope
//              data: blob
//              version key 0x00 ++ "VERSION" holds big endian uint32 format version
//
//   memory   - map, nothing survives Close; for tests and dry runs
//
// Only one transaction may be open at a time on a store.  A store
// that cannot proceed because of a concurrent writer returns an error
// of class fault.BusyError; any other error is a hard failure.
package storage
