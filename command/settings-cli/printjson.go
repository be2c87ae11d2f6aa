// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.Config{
	EscapeHTML:  false,
	SortMapKeys: true,
}.Froze()

func printJson(handle io.Writer, message interface{}) error {

	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		return err
	}

	fmt.Fprintf(handle, "%s\n", b)
	return nil
}

// parseValue - JSON if possible, otherwise the text itself
//
// integral numbers become int64 so that they are stored the same way
// scripts store them
func parseValue(text string) interface{} {
	var v interface{}
	if err := json.UnmarshalFromString(text, &v); nil != err {
		return text
	}
	return integers(v)
}

func integers(v interface{}) interface{} {
	switch value := v.(type) {
	case float64:
		if value == float64(int64(value)) {
			return int64(value)
		}
	case []interface{}:
		for i, item := range value {
			value[i] = integers(item)
		}
	case map[string]interface{}:
		for k, item := range value {
			value[k] = integers(item)
		}
	}
	return v
}
