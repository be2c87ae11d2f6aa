// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package settings

import (
	"fmt"
	"strings"

	"github.com/bitmark-inc/scriptsettings/fault"
	"github.com/bitmark-inc/scriptsettings/session"
)

// Scope - selects global, game or character settings
type Scope string

// Global - the scope shared by all games and characters
const Global Scope = separator

// GameScope - scope for a game
func GameScope(game string) Scope {
	return Scope(game)
}

// CharacterScope - scope for a character in a game
func CharacterScope(game string, character string) Scope {
	return Scope(game + separator + character)
}

// separates game and character in a scope
const separator = ":"

// only the global scope and the scopes of the active game and
// character are accepted
//
// a game or character name containing the separator has no valid
// scope, otherwise game "a:b" and character "b" of game "a" would
// share one key
func validScope(scope Scope, identity session.Identity) error {
	if Global == scope {
		return nil
	}

	game := identity.Game()
	if validName(game) {
		if GameScope(game) == scope {
			return nil
		}
		character := identity.Character()
		if validName(character) && CharacterScope(game, character) == scope {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", fault.ErrInvalidScope, string(scope))
}

func validName(name string) bool {
	return "" != name && !strings.Contains(name, separator)
}
