// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/uber-go/tally/v4"
)

// logReporter - write reported metrics to a logger channel
type logReporter struct {
	log *logger.L
}

// create a metrics scope that reports to the "stats" log channel
// at the given interval
func newStatsScope(interval time.Duration) (tally.Scope, io.Closer) {
	reporter := &logReporter{
		log: logger.New("stats"),
	}
	return tally.NewRootScope(tally.ScopeOptions{
		Prefix:    "settings",
		Reporter:  reporter,
		Separator: ".",
	}, interval)
}

func (r *logReporter) Reporting() bool {
	return true
}

func (r *logReporter) Tagging() bool {
	return false
}

func (r *logReporter) Capabilities() tally.Capabilities {
	return r
}

func (r *logReporter) Flush() {
	r.log.Flush()
}

func (r *logReporter) ReportCounter(name string, tags map[string]string, value int64) {
	r.log.Infof("counter: %s  delta: %d", name, value)
}

func (r *logReporter) ReportGauge(name string, tags map[string]string, value float64) {
	r.log.Infof("gauge: %s  value: %g", name, value)
}

func (r *logReporter) ReportTimer(name string, tags map[string]string, interval time.Duration) {
	r.log.Infof("timer: %s  duration: %s", name, interval)
}

func (r *logReporter) ReportHistogramValueSamples(name string, tags map[string]string, buckets tally.Buckets, bucketLowerBound, bucketUpperBound float64, samples int64) {
	r.log.Infof("histogram: %s  bucket: [%g, %g)  samples: %d", name, bucketLowerBound, bucketUpperBound, samples)
}

func (r *logReporter) ReportHistogramDurationSamples(name string, tags map[string]string, buckets tally.Buckets, bucketLowerBound, bucketUpperBound time.Duration, samples int64) {
	r.log.Infof("histogram: %s  bucket: [%s, %s)  samples: %d", name, bucketLowerBound, bucketUpperBound, samples)
}
