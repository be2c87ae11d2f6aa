// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package script

import (
	"fmt"
	"math"
	"sort"

	"github.com/yuin/gluamapper"
	lua "github.com/yuin/gopher-lua"
)

var mapperOption = gluamapper.Option{
	NameFunc: func(s string) string {
		return s
	},
	TagName: "gluamapper",
}

// toGo - convert a Lua value to a value the codecs can store
func toGo(lv lua.LValue) (interface{}, error) {
	return normalise(gluamapper.ToGoValue(lv, mapperOption))
}

func normalise(v interface{}) (interface{}, error) {
	switch value := v.(type) {
	case nil, bool, string:
		return value, nil

	case float64:
		if value == math.Trunc(value) && math.Abs(value) < 1<<63 {
			return int64(value), nil
		}
		return value, nil

	case []interface{}:
		a := make([]interface{}, len(value))
		for i, item := range value {
			n, err := normalise(item)
			if nil != err {
				return nil, err
			}
			a[i] = n
		}
		return a, nil

	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(value))
		for k, item := range value {
			n, err := normalise(item)
			if nil != err {
				return nil, err
			}
			m[fmt.Sprint(k)] = n
		}
		return m, nil

	case lua.LValue:
		return nil, fmt.Errorf("cannot store a Lua %s", value.Type())

	default:
		return nil, fmt.Errorf("cannot store a %T", value)
	}
}

// toLua - convert a stored value for use by a script
func toLua(L *lua.LState, v interface{}) lua.LValue {
	switch value := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(value)
	case string:
		return lua.LString(value)
	case []byte:
		return lua.LString(value)
	case int:
		return lua.LNumber(value)
	case int64:
		return lua.LNumber(value)
	case uint64:
		return lua.LNumber(value)
	case float32:
		return lua.LNumber(value)
	case float64:
		return lua.LNumber(value)

	case []interface{}:
		t := L.CreateTable(len(value), 0)
		// Append skips nil, which would shift the later items
		for i, item := range value {
			t.RawSetInt(i+1, toLua(L, item))
		}
		return t

	case map[string]interface{}:
		t := L.CreateTable(0, len(value))
		keys := make([]string, 0, len(value))
		for k := range value {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			t.RawSetString(k, toLua(L, value[k]))
		}
		return t

	case map[interface{}]interface{}:
		t := L.CreateTable(0, len(value))
		for k, item := range value {
			t.RawSetString(fmt.Sprint(k), toLua(L, item))
		}
		return t

	default:
		return lua.LString(fmt.Sprint(value))
	}
}
