// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/scriptsettings/codec"
	"github.com/bitmark-inc/scriptsettings/fault"
	"github.com/bitmark-inc/scriptsettings/script"
	"github.com/bitmark-inc/scriptsettings/session"
	"github.com/bitmark-inc/scriptsettings/settings"
	"github.com/bitmark-inc/scriptsettings/storage"
	"github.com/bitmark-inc/scriptsettings/task"
	"github.com/bitmark-inc/scriptsettings/util"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	if err = fault.Initialise(); nil != err {
		exitwithstatus.Message("%s: panic log setup failed with error: %s", program, err)
	}
	defer fault.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	log.Infof("game: %q  character: %q", theConfiguration.Game, theConfiguration.Character)
	log.Infof("database: %q", theConfiguration.Database)

	// start the data storage
	log.Info("initialise storage")
	store, err := storage.Open(theConfiguration.Database.Backend, theConfiguration.Database.Name, false)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer store.Close()

	c, err := codec.New(theConfiguration.Codec)
	if nil != err {
		log.Criticalf("codec initialise error: %s", err)
		exitwithstatus.Message("codec initialise error: %s", err)
	}

	statsInterval, err := time.ParseDuration(theConfiguration.StatsInterval)
	if nil != err {
		log.Criticalf("stats interval error: %s", err)
		exitwithstatus.Message("stats interval error: %s", err)
	}
	metrics, closer := newStatsScope(statsInterval)
	defer closer.Close()

	tasks := task.NewRegistry()

	log.Info("initialise settings")
	theSettings, err := settings.New(theConfiguration.Settings, settings.Collaborators{
		Store:    store,
		Codec:    c,
		Tasks:    tasks,
		Identity: session.New(theConfiguration.Game, theConfiguration.Character),
		Metrics:  metrics,
	})
	if nil != err {
		log.Criticalf("settings initialise error: %s", err)
		exitwithstatus.Message("settings initialise error: %s", err)
	}

	err = theSettings.Start()
	if nil != err {
		log.Criticalf("settings start error: %s", err)
		exitwithstatus.Message("settings start error: %s", err)
	}
	defer func() {
		if err := theSettings.Stop(); nil != err {
			log.Errorf("final flush error: %s", err)
		}
	}()

	runner, err := script.NewRunner(theSettings, tasks)
	if nil != err {
		log.Criticalf("script runner error: %s", err)
		exitwithstatus.Message("script runner error: %s", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scripts, err := scriptFiles(theConfiguration)
	if nil != err {
		log.Criticalf("script directory error: %s", err)
		exitwithstatus.Message("script directory error: %s", err)
	}
	for _, fileName := range scripts {
		if !util.EnsureFileExists(fileName) {
			log.Warnf("script: %q not found", fileName)
		}
	}

	log.Infof("running %d scripts", len(scripts))
	done := make(chan int, 1)
	go func() {
		done <- runner.RunFiles(ctx, scripts)
	}()

	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for scripts to finish, CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	failed := 0
	select {
	case sig := <-ch:
		log.Infof("received signal: %v", sig)
		if 0 == len(options["quiet"]) {
			fmt.Printf("\nreceived signal: %v\n", sig)
			fmt.Printf("\nshutting down…\n")
		}
		cancel()
		failed = <-done

	case failed = <-done:
	}

	log.Infof("scripts finished: %d failed", failed)
	log.Info("shutting down…")
}
