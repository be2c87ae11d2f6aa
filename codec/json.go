// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package codec

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/bitmark-inc/scriptsettings/fault"
)

// JSON with sorted keys
//
// all numbers decode as float64
type jsonCodec struct {
	api jsoniter.API
}

func newJSON() Codec {
	return &jsonCodec{
		api: jsoniter.Config{
			SortMapKeys:            true,
			EscapeHTML:             false,
			ValidateJsonRawMessage: true,
		}.Froze(),
	}
}

func (c *jsonCodec) Name() string {
	return JSON
}

func (c *jsonCodec) Encode(data map[string]interface{}) ([]byte, error) {
	if nil == data {
		data = map[string]interface{}{}
	}
	blob, err := c.api.Marshal(data)
	if nil != err {
		return nil, fmt.Errorf("%w: %s", fault.ErrEncodeFailed, err)
	}
	if err := verify(blob, c.api.Marshal, c.unmarshal); nil != err {
		return nil, err
	}
	return blob, nil
}

func (c *jsonCodec) Decode(blob []byte) (map[string]interface{}, error) {
	data, err := c.unmarshal(blob)
	if nil != err {
		return nil, fmt.Errorf("%w: %s", fault.ErrDecodeFailed, err)
	}
	return data, nil
}

func (c *jsonCodec) unmarshal(blob []byte) (map[string]interface{}, error) {
	data := map[string]interface{}{}
	if err := c.api.Unmarshal(blob, &data); nil != err {
		return nil, err
	}
	if nil == data {
		data = map[string]interface{}{}
	}
	return data, nil
}
