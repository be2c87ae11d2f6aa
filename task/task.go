// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package task - registry of running scripts
//
// A task is identified by its script name; several instances of the
// same script share the identity and the task is running while at
// least one instance is.
package task

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/bitmark-inc/scriptsettings/fault"
)

// ID - identity of a task
type ID string

// Tracker - answers "is task X still running?"
type Tracker interface {
	Running(ID) bool
}

type contextKey struct{}

// NewContext - attach a task identity to a context
func NewContext(ctx context.Context, id ID) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext - the identity of the task a context belongs to
func FromContext(ctx context.Context) (ID, bool) {
	if nil == ctx {
		return "", false
	}
	id, ok := ctx.Value(contextKey{}).(ID)
	if !ok || "" == id {
		return "", false
	}
	return id, true
}

// Registry - the set of running tasks
type Registry struct {
	sync.RWMutex
	running map[ID]int
}

// NewRegistry - create an empty registry
func NewRegistry() *Registry {
	return &Registry{
		running: make(map[ID]int),
	}
}

// Start - register one instance of a task and return a context
// carrying its identity
//
// the caller must call the returned finish function exactly once
// when the instance ends
func (r *Registry) Start(ctx context.Context, id ID) (context.Context, func(), error) {
	if "" == strings.TrimSpace(string(id)) {
		return nil, nil, fault.ErrInvalidTaskName
	}

	r.Lock()
	r.running[id] += 1
	r.Unlock()

	once := sync.Once{}
	finish := func() {
		once.Do(func() {
			r.finish(id)
		})
	}
	return NewContext(ctx, id), finish, nil
}

func (r *Registry) finish(id ID) {
	r.Lock()
	defer r.Unlock()

	n := r.running[id] - 1
	if n <= 0 {
		delete(r.running, id)
	} else {
		r.running[id] = n
	}
}

// Running - true while any instance of the task is running
func (r *Registry) Running(id ID) bool {
	r.RLock()
	defer r.RUnlock()

	return r.running[id] > 0
}

// List - sorted identities of all running tasks
func (r *Registry) List() []ID {
	r.RLock()
	defer r.RUnlock()

	ids := make([]ID, 0, len(r.running))
	for id := range r.running {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i] < ids[j]
	})
	return ids
}
