// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package script

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bitmark-inc/logger"
	lua "github.com/yuin/gopher-lua"

	"github.com/bitmark-inc/scriptsettings/fault"
	"github.com/bitmark-inc/scriptsettings/settings"
	"github.com/bitmark-inc/scriptsettings/task"
)

// Runner - starts scripts as registered tasks
type Runner struct {
	log      *logger.L
	settings *settings.Settings
	tasks    *task.Registry
}

// NewRunner - create a script runner
func NewRunner(s *settings.Settings, tasks *task.Registry) (*Runner, error) {
	if nil == s || nil == tasks {
		return nil, fault.ErrMissingCollaborator
	}
	return &Runner{
		log:      logger.New("script"),
		settings: s,
		tasks:    tasks,
	}, nil
}

// TaskName - the task identity of a script file
func TaskName(fileName string) task.ID {
	base := filepath.Base(fileName)
	return task.ID(strings.TrimSuffix(base, filepath.Ext(base)))
}

// RunFile - run one script file to completion
//
// cancelling ctx stops the script
func (r *Runner) RunFile(ctx context.Context, fileName string) error {
	return r.run(ctx, TaskName(fileName), func(L *lua.LState) error {
		return L.DoFile(fileName)
	})
}

// RunString - run script source under the given task name
func (r *Runner) RunString(ctx context.Context, name task.ID, source string) error {
	return r.run(ctx, name, func(L *lua.LState) error {
		return L.DoString(source)
	})
}

// RunFiles - run several scripts concurrently and wait for all of
// them
//
// returns the number of scripts that failed
func (r *Runner) RunFiles(ctx context.Context, fileNames []string) int {
	var wg sync.WaitGroup
	var mutex sync.Mutex
	failed := 0

	for _, fileName := range fileNames {
		wg.Add(1)
		go func(fileName string) {
			defer wg.Done()
			err := r.RunFile(ctx, fileName)
			if nil != err {
				mutex.Lock()
				failed += 1
				mutex.Unlock()
			}
		}(fileName)
	}
	wg.Wait()
	return failed
}

func (r *Runner) run(ctx context.Context, name task.ID, execute func(*lua.LState) error) error {
	ctx, finish, err := r.tasks.Start(ctx, name)
	if nil != err {
		return err
	}
	defer finish()

	log := r.log
	log.Infof("start: %s", name)

	L := lua.NewState()
	defer L.Close()

	L.OpenLibs()
	L.SetContext(ctx)
	register(ctx, L, r.settings)

	err = execute(L)
	if nil != err {
		log.Errorf("script: %s  error: %s", name, err)
		return fmt.Errorf("script %s: %w", name, err)
	}

	log.Infof("finished: %s", name)
	return nil
}
