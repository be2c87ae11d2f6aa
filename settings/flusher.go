// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package settings

import (
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/scriptsettings/fault"
)

type flusher struct {
	log      *logger.L
	interval time.Duration
	settings *Settings
}

// Run - background process that flushes on a timer
func (f *flusher) Run(args interface{}, shutdown <-chan struct{}) {
	log := f.log

	log.Info("starting…")

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-ticker.C:
			f.process()
		}
	}
	log.Info("stopped")
}

// a failing flush must not end the timer loop
func (f *flusher) process() {
	defer func() {
		if r := recover(); nil != r {
			fault.Criticalf("flusher: panic: %v", r)
		}
	}()

	err := f.settings.Flush()
	if nil != err {
		f.log.Warnf("flush: %s", err)
	}
}
