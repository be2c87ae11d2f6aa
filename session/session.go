// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package session - the game and character the host is connected as
package session

import (
	"sync"
)

// Identity - current game and character
//
// both may change while scripts are running, so callers must not
// cache the values
//
// names containing ":" have no settings scope
type Identity interface {
	Game() string
	Character() string
}

// State - a mutable Identity
type State struct {
	sync.RWMutex
	game      string
	character string
}

// New - create a session state
func New(game string, character string) *State {
	return &State{
		game:      game,
		character: character,
	}
}

// Set - switch to another game/character
func (s *State) Set(game string, character string) {
	s.Lock()
	s.game = game
	s.character = character
	s.Unlock()
}

// Game - current game identifier
func (s *State) Game() string {
	s.RLock()
	defer s.RUnlock()
	return s.game
}

// Character - current character name
func (s *State) Character() string {
	s.RLock()
	defer s.RUnlock()
	return s.character
}
