// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/scriptsettings/session"
)

func TestSet(t *testing.T) {
	s := session.New("GSIV", "Bob")
	assert.Equal(t, "GSIV", s.Game(), "initial game")
	assert.Equal(t, "Bob", s.Character(), "initial character")

	s.Set("DR", "Alice")
	assert.Equal(t, "DR", s.Game(), "changed game")
	assert.Equal(t, "Alice", s.Character(), "changed character")
}
