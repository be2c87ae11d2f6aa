// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - settings, storage and script error values
//
// Errors are typed strings grouped into classes (busy, exists,
// invalid, not found, process) so callers compare with == or
// errors.Is and classify with the IsErrX functions, including through
// fmt.Errorf %w wrapping
package fault
