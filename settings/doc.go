// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package settings - persistent per-script settings
//
// Each running script (the owner) has one dictionary per scope:
//
//   ":"                 global
//   "<game>"            the active game
//   "<game>:<name>"     the active game and character
//
// A dictionary is loaded from storage on first access and then
// shared by reference: every reader in the owning script sees every
// write immediately.  Writes are not sent to storage directly; a
// background flusher periodically compares a fingerprint of each
// dictionary with the one taken when it was loaded or last saved and
// commits all changed dictionaries in a single transaction.  When
// a script has stopped its dictionaries are dropped from memory,
// after any pending change has been committed.
//
// All access, loads and flushes are serialised by one lock.
//
//   owner --(ctx)--> Read/Write/Snapshot --> entries[owner,scope]
//                                                 |
//                            Flush (timer / Save) v
//                       encode -> fingerprint -> Begin/Put/Commit
package settings
