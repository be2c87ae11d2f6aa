// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/bitmark-inc/exitwithstatus"
	jsoniter "github.com/json-iterator/go"

	"github.com/bitmark-inc/scriptsettings/script"
)

// setup command handler
//
// commands that do not need the configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "start", "run":
		return false // continue processing

	case "config-test", "cfg", "scripts", "s":
		return false // defer processing until configuration is loaded

	case "version", "v":
		fmt.Printf("%s\n", version)
		return true

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version sting\n\n")

		fmt.Printf("  start                      (run)    - just run the program, same as no arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                (cfg)    - just check the configuration file\n")
		fmt.Printf("\n")

		fmt.Printf("  scripts                    (s)      - list the configured scripts and their task names\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and preform normal exit from main
	return true
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		json := jsoniter.ConfigCompatibleWithStandardLibrary
		b, err := json.MarshalIndent(options, "", "  ")
		if err != nil {
			exitwithstatus.Message("error: %s", err)
		}
		os.Stdout.Write(b)
		os.Stdout.WriteString("\n")

	case "scripts", "s":
		scripts, err := scriptFiles(options)
		if nil != err {
			exitwithstatus.Message("error: %s", err)
		}
		for _, fileName := range scripts {
			fmt.Printf("%-20s  %s\n", script.TaskName(fileName), fileName)
		}

	default: // unknown commands fall through to main
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}
