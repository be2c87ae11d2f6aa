// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package codec

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/bitmark-inc/scriptsettings/fault"
)

// canonical CBOR
//
// integers decode as int64, floats as float64 and nested maps as
// map[string]interface{}
type cborCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func newCBOR() (Codec, error) {
	enc, err := cbor.CanonicalEncOptions().EncMode()
	if nil != err {
		return nil, err
	}

	dec, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]interface{}(nil)),
		IntDec:         cbor.IntDecConvertSigned,
	}.DecMode()
	if nil != err {
		return nil, err
	}

	return &cborCodec{
		enc: enc,
		dec: dec,
	}, nil
}

func (c *cborCodec) Name() string {
	return CBOR
}

func (c *cborCodec) Encode(data map[string]interface{}) ([]byte, error) {
	if nil == data {
		data = map[string]interface{}{}
	}
	blob, err := c.enc.Marshal(data)
	if nil != err {
		return nil, fmt.Errorf("%w: %s", fault.ErrEncodeFailed, err)
	}
	if err := verify(blob, c.enc.Marshal, c.unmarshal); nil != err {
		return nil, err
	}
	return blob, nil
}

func (c *cborCodec) Decode(blob []byte) (map[string]interface{}, error) {
	data, err := c.unmarshal(blob)
	if nil != err {
		return nil, fmt.Errorf("%w: %s", fault.ErrDecodeFailed, err)
	}
	return data, nil
}

func (c *cborCodec) unmarshal(blob []byte) (map[string]interface{}, error) {
	data := map[string]interface{}{}
	if err := c.dec.Unmarshal(blob, &data); nil != err {
		return nil, err
	}
	if nil == data {
		data = map[string]interface{}{}
	}
	return data, nil
}
