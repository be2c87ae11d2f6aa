// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package codec - reversible encodings between a settings dictionary
// and the blob stored for it
//
// The encodings are deterministic: encoding equal dictionaries always
// produces identical bytes, so a fingerprint of the blob can be used
// to detect changes.
package codec

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/bitmark-inc/scriptsettings/fault"
)

// names of the available codecs
const (
	CBOR = "cbor"
	JSON = "json"
)

// Codec - convert a dictionary to and from its stored form
type Codec interface {
	Name() string
	Encode(map[string]interface{}) ([]byte, error)
	Decode([]byte) (map[string]interface{}, error)
}

// New - select a codec by name, blank selects the default
func New(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", CBOR:
		return newCBOR()
	case JSON:
		return newJSON(), nil
	default:
		return nil, fault.ErrInvalidCodec
	}
}

// verify - accept a blob only if it decodes back to a dictionary that
// encodes to the same bytes
//
// some values encode without error but cannot be loaded again, or load
// as something else: unsigned integers beyond int64 or maps with
// non-string keys in CBOR, integers beyond 2^53 in JSON; the error
// never includes the value
func verify(blob []byte, marshal func(interface{}) ([]byte, error), unmarshal func([]byte) (map[string]interface{}, error)) error {
	data, err := unmarshal(blob)
	if nil != err {
		return fmt.Errorf("%w: stored form cannot be decoded", fault.ErrEncodeFailed)
	}
	again, err := marshal(data)
	if nil != err || !bytes.Equal(blob, again) {
		return fmt.Errorf("%w: stored form decodes to different content", fault.ErrEncodeFailed)
	}
	return nil
}
