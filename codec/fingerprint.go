// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package codec

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// Fingerprint - SHA3-256 of an encoded blob
type Fingerprint [32]byte

// FingerprintOf - compute the fingerprint of a blob
func FingerprintOf(blob []byte) Fingerprint {
	return Fingerprint(sha3.Sum256(blob))
}

// String - hex form for logging
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}
