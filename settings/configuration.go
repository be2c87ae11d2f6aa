// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package settings

import (
	"fmt"
	"time"

	"github.com/bitmark-inc/scriptsettings/fault"
)

// defaults
const (
	DefaultFlushInterval = "5m"
	DefaultRetryCount    = 5
	DefaultRetryDelay    = "100ms"

	maximumRetryDelay = 5 * time.Second
)

// Configuration - flush and retry timing
type Configuration struct {
	FlushInterval string `gluamapper:"flush_interval" json:"flush_interval"`
	RetryCount    int    `gluamapper:"retry_count" json:"retry_count"`
	RetryDelay    string `gluamapper:"retry_delay" json:"retry_delay"`
}

// DefaultConfiguration - values used for any blank field
func DefaultConfiguration() Configuration {
	return Configuration{
		FlushInterval: DefaultFlushInterval,
		RetryCount:    DefaultRetryCount,
		RetryDelay:    DefaultRetryDelay,
	}
}

type timing struct {
	interval time.Duration
	retry    retryPolicy
}

func (c Configuration) timing() (timing, error) {
	if "" == c.FlushInterval {
		c.FlushInterval = DefaultFlushInterval
	}
	if "" == c.RetryDelay {
		c.RetryDelay = DefaultRetryDelay
	}

	interval, err := time.ParseDuration(c.FlushInterval)
	if nil != err {
		return timing{}, fmt.Errorf("%w: %s", fault.ErrInvalidInterval, err)
	}
	if interval <= 0 {
		return timing{}, fault.ErrInvalidInterval
	}

	delay, err := time.ParseDuration(c.RetryDelay)
	if nil != err {
		return timing{}, fmt.Errorf("%w: %s", fault.ErrInvalidInterval, err)
	}
	if delay <= 0 || c.RetryCount < 0 {
		return timing{}, fault.ErrInvalidInterval
	}

	return timing{
		interval: interval,
		retry: retryPolicy{
			count:   uint64(c.RetryCount),
			delay:   delay,
			maximum: maximumRetryDelay,
		},
	}, nil
}
