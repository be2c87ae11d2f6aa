// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package settings

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/bitmark-inc/scriptsettings/fault"
)

// busy storage is retried with exponential backoff, any other error
// is returned at once
type retryPolicy struct {
	count   uint64
	delay   time.Duration
	maximum time.Duration
}

func (p retryPolicy) do(f func() error) error {
	b := retry.NewExponential(p.delay)
	b = retry.WithCappedDuration(p.maximum, b)
	b = retry.WithMaxRetries(p.count, b)

	return retry.Do(context.Background(), b, func(_ context.Context) error {
		err := f()
		if fault.IsErrBusy(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}
