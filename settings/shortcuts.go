// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package settings

import (
	"context"

	"github.com/bitmark-inc/scriptsettings/session"
)

// Scoped - access to one scope, chosen afresh on each call from the
// current game and character
type Scoped struct {
	settings *Settings
	scope    func(session.Identity) Scope
}

// Global - shortcut for the global scope
func Global(s *Settings) *Scoped {
	return &Scoped{
		settings: s,
		scope: func(session.Identity) Scope {
			return Global
		},
	}
}

// Game - shortcut for the scope of the active game
func Game(s *Settings) *Scoped {
	return &Scoped{
		settings: s,
		scope: func(identity session.Identity) Scope {
			return GameScope(identity.Game())
		},
	}
}

// Character - shortcut for the scope of the active character
func Character(s *Settings) *Scoped {
	return &Scoped{
		settings: s,
		scope: func(identity session.Identity) Scope {
			return CharacterScope(identity.Game(), identity.Character())
		},
	}
}

// Scope - the scope the next call will use
func (sc *Scoped) Scope() Scope {
	return sc.scope(sc.settings.identity)
}

// Read - see Settings.Read
func (sc *Scoped) Read(ctx context.Context, key string) (interface{}, error) {
	return sc.settings.Read(ctx, sc.Scope(), key)
}

// Write - see Settings.Write
func (sc *Scoped) Write(ctx context.Context, key string, value interface{}) error {
	return sc.settings.Write(ctx, sc.Scope(), key, value)
}

// Snapshot - see Settings.Snapshot
func (sc *Scoped) Snapshot(ctx context.Context) (Data, error) {
	return sc.settings.Snapshot(ctx, sc.Scope())
}

// Update - see Settings.Update
func (sc *Scoped) Update(ctx context.Context, f func(Data) error) error {
	return sc.settings.Update(ctx, sc.Scope(), f)
}

// Save - see Settings.Save
func (sc *Scoped) Save() error {
	return sc.settings.Save()
}
