// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package settings

import (
	"github.com/uber-go/tally/v4"
)

type metrics struct {
	loads          tally.Counter
	decodeFailures tally.Counter
	flushes        tally.Counter
	rowsWritten    tally.Counter
	writeFailures  tally.Counter
	evictions      tally.Counter
	entries        tally.Gauge
	flushTime      tally.Timer
}

func newMetrics(scope tally.Scope) metrics {
	return metrics{
		loads:          scope.Counter("loads"),
		decodeFailures: scope.Counter("decode_failures"),
		flushes:        scope.Counter("flushes"),
		rowsWritten:    scope.Counter("rows_written"),
		writeFailures:  scope.Counter("write_failures"),
		evictions:      scope.Counter("evictions"),
		entries:        scope.Gauge("entries"),
		flushTime:      scope.Timer("flush_time"),
	}
}
