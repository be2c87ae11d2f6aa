// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault_test

import (
	"fmt"
	"testing"

	"github.com/bitmark-inc/scriptsettings/fault"
)

var (
	ErrBusyOne     = fault.BusyError("busy one")
	ErrBusyTwo     = fault.BusyError("busy two")
	ErrExistsOne   = fault.ExistsError("exists one ")
	ErrExistsTwo   = fault.ExistsError("exists two")
	ErrInvalidOne  = fault.InvalidError("invalid one")
	ErrInvalidTwo  = fault.InvalidError("invalid two")
	ErrNotFoundOne = fault.NotFoundError("not found one")
	ErrNotFoundTwo = fault.NotFoundError("not found two")
	ErrProcessOne  = fault.ProcessError("process one")
	ErrProcessTwo  = fault.ProcessError("process two")
)

// test that the various error classes are distinguished
func TestClasses(t *testing.T) {
	errorList := []struct {
		err      error
		busy     bool
		exists   bool
		invalid  bool
		notFound bool
		process  bool
	}{
		{ErrBusyOne, true, false, false, false, false},
		{ErrBusyTwo, true, false, false, false, false},
		{ErrExistsOne, false, true, false, false, false},
		{ErrExistsTwo, false, true, false, false, false},
		{ErrInvalidOne, false, false, true, false, false},
		{ErrInvalidTwo, false, false, true, false, false},
		{ErrNotFoundOne, false, false, false, true, false},
		{ErrNotFoundTwo, false, false, false, true, false},
		{ErrProcessOne, false, false, false, false, true},
		{ErrProcessTwo, false, false, false, false, true},
		{fmt.Errorf("get owner/scope: %w", ErrBusyOne), true, false, false, false, false},
		{fmt.Errorf("load: %w", fault.ErrDecodeFailed), false, false, false, false, true},
		{nil, false, false, false, false, false},
	}

	for i, e := range errorList {
		err := e.err
		if fault.IsErrBusy(err) != e.busy {
			t.Errorf("%d: expected 'busy' == %v for err = %v", i, e.busy, err)
		}
		if fault.IsErrExists(err) != e.exists {
			t.Errorf("%d: expected 'exists' == %v for err = %v", i, e.exists, err)
		}
		if fault.IsErrInvalid(err) != e.invalid {
			t.Errorf("%d: expected 'invalid' == %v for err = %v", i, e.invalid, err)
		}
		if fault.IsErrNotFound(err) != e.notFound {
			t.Errorf("%d: expected 'not found' == %v for err = %v", i, e.notFound, err)
		}
		if fault.IsErrProcess(err) != e.process {
			t.Errorf("%d: expected 'process' == %v for err = %v", i, e.process, err)
		}
	}
}
