// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/bitmark-inc/logger"
)

// hold a logger channel
var panicLog struct {
	sync.Mutex
	log *logger.L
}

// Initialise - setup a log channel for last attempt to log something
func Initialise() error {
	panicLog.Lock()
	defer panicLog.Unlock()

	if nil != panicLog.log {
		return ErrAlreadyInitialised
	}
	panicLog.log = logger.New("PANIC")
	if nil == panicLog.log {
		return ErrInvalidLoggerChannel
	}
	return nil
}

// Finalise - flush any data and release the channel
func Finalise() {
	panicLog.Lock()
	defer panicLog.Unlock()

	if nil != panicLog.log {
		panicLog.log.Flush()
		panicLog.log = nil
	}
}

// Criticalf - log a formatted string with arguments like fmt.Sprintf()
// prefixed by the caller's location
func Criticalf(format string, arguments ...interface{}) {
	if _, file, line, ok := runtime.Caller(1); ok {
		a := make([]interface{}, 2, 2+len(arguments))
		a[0] = file
		a[1] = line
		a = append(a, arguments...)
		internalCriticalf("(%q:%d) "+format, a...)
	} else {
		internalCriticalf(format, arguments...)
	}
}

// PanicIfError - conditional panic
func PanicIfError(message string, err error) {
	if nil == err {
		return
	}
	s := fmt.Sprintf("%s failed with error: %s", message, err)
	internalCriticalf("%s", s)
	panic(s)
}

// internal routine to handle uninitialised logger channel
func internalCriticalf(format string, arguments ...interface{}) {
	panicLog.Lock()
	log := panicLog.log
	panicLog.Unlock()

	if nil == log {
		fmt.Printf("*** "+format+"\n", arguments...)
	} else {
		log.Criticalf(format, arguments...)
	}
}
