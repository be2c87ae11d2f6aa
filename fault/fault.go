// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type BusyError GenericError
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised   = ExistsError("already initialised")
	ErrDecodeFailed         = ProcessError("settings blob decode failed")
	ErrDatabaseVersion      = InvalidError("database version is newer than supported")
	ErrEncodeFailed         = ProcessError("settings blob encode failed")
	ErrInvalidBackend       = InvalidError("invalid storage backend")
	ErrInvalidCodec         = InvalidError("invalid codec")
	ErrInvalidInterval      = InvalidError("invalid flush interval")
	ErrInvalidKey           = InvalidError("owner and scope must be non-blank and contain no NUL")
	ErrInvalidLoggerChannel = InvalidError("invalid logger channel")
	ErrInvalidScope         = InvalidError(`scope must be ":" (global), "<game>" or "<game>:<character>"`)
	ErrInvalidStructPointer = InvalidError("invalid struct pointer")
	ErrInvalidTaskName      = InvalidError("invalid task name")
	ErrMissingCollaborator  = InvalidError("missing settings collaborator")
	ErrNoCurrentTask        = NotFoundError("unable to identify calling task")
	ErrNotInitialised       = NotFoundError("not initialised")
	ErrPersistenceFailed    = ProcessError("settings persistence failed")
	ErrStorageBusy          = BusyError("storage is busy")
	ErrStorageClosed        = ProcessError("storage is closed")
	ErrTransactionInUse     = BusyError("transaction already in use")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e BusyError) Error() string     { return string(e) }
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }

// determine the class of an error
//
// wrapped errors are unwrapped so that a fault.BusyError returned
// via fmt.Errorf("...: %w", err) is still classified correctly
func IsErrBusy(e error) bool     { var t BusyError; return as(e, &t) }
func IsErrExists(e error) bool   { var t ExistsError; return as(e, &t) }
func IsErrInvalid(e error) bool  { var t InvalidError; return as(e, &t) }
func IsErrNotFound(e error) bool { var t NotFoundError; return as(e, &t) }
func IsErrProcess(e error) bool  { var t ProcessError; return as(e, &t) }
