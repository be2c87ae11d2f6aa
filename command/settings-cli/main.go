// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/scriptsettings/codec"
	"github.com/bitmark-inc/scriptsettings/storage"
)

type metadata struct {
	store   storage.Store
	codec   codec.Codec
	verbose bool
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	app := newApp(os.Stdout, os.Stderr)

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

func newApp(w io.Writer, e io.Writer) *cli.App {

	app := cli.NewApp()
	app.Name = "settings-cli"
	app.Usage = "inspect and edit stored script settings"
	app.Version = version
	app.HideVersion = true

	app.Writer = w
	app.ErrWriter = e

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "database, d",
			Value: "",
			Usage: "*settings database `FILE`",
		},
		cli.StringFlag{
			Name:  "backend, b",
			Value: storage.SQLite,
			Usage: " database `BACKEND` [sqlite|leveldb]",
		},
		cli.StringFlag{
			Name:  "codec, c",
			Value: codec.CBOR,
			Usage: " blob `CODEC` [cbor|json]",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "list",
			Usage:     "list the stored owner/scope pairs",
			ArgsUsage: "\n   (* = required)",
			Action:    runList,
		},
		{
			Name:      "show",
			Usage:     "display one stored dictionary as JSON",
			ArgsUsage: "*OWNER *SCOPE",
			Action:    runShow,
		},
		{
			Name:      "get",
			Usage:     "display one stored value as JSON",
			ArgsUsage: "*OWNER *SCOPE *KEY",
			Action:    runGet,
		},
		{
			Name:      "set",
			Usage:     "store a value, VALUE is parsed as JSON or else used as a string",
			ArgsUsage: "*OWNER *SCOPE *KEY *VALUE",
			Action:    runSet,
		},
		{
			Name:      "delete",
			Usage:     "remove a key, or the whole dictionary if no key is given",
			ArgsUsage: "*OWNER *SCOPE [KEY]",
			Action:    runDelete,
		},
		{
			Name:  "version",
			Usage: "display settings-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	app.Before = func(c *cli.Context) error {

		e := c.App.ErrWriter
		w := c.App.Writer
		verbose := c.GlobalBool("verbose")

		// to suppress opening the database for certain commands
		command := c.Args().Get(0)
		switch command {
		case "", "version", "help", "h":
			return nil
		}

		file := c.GlobalString("database")
		if "" == file {
			return fmt.Errorf("database file is required")
		}

		cdc, err := codec.New(c.GlobalString("codec"))
		if nil != err {
			return err
		}

		logging := logger.Configuration{
			Directory: filepath.Dir(file),
			File:      "settings-cli.log",
			Size:      1048576,
			Count:     10,
			Console:   true,
			Levels: map[string]string{
				logger.DefaultTag: "critical",
			},
		}
		if err := logger.Initialise(logging); nil != err {
			return fmt.Errorf("logger setup failed with error: %s", err)
		}
		c.App.Metadata["logging"] = true

		if verbose {
			fmt.Fprintf(e, "opening %s database: %s\n", c.GlobalString("backend"), file)
		}

		// a running daemon may hold the database open: sqlite
		// allows this, leveldb does not
		store, err := storage.Open(c.GlobalString("backend"), file, false)
		if nil != err {
			return err
		}

		c.App.Metadata["config"] = &metadata{
			store:   store,
			codec:   cdc,
			verbose: verbose,
			e:       e,
			w:       w,
		}
		return nil
	}

	app.After = func(c *cli.Context) error {
		var err error
		if m, ok := c.App.Metadata["config"].(*metadata); ok {
			delete(c.App.Metadata, "config")
			err = m.store.Close()
		}
		if _, ok := c.App.Metadata["logging"]; ok {
			delete(c.App.Metadata, "logging")
			logger.Finalise()
		}
		return err
	}

	return app
}
