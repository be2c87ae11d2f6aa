// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/scriptsettings/codec"
	"github.com/bitmark-inc/scriptsettings/configuration"
	"github.com/bitmark-inc/scriptsettings/settings"
	"github.com/bitmark-inc/scriptsettings/storage"
	"github.com/bitmark-inc/scriptsettings/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultDatabaseDirectory = "data"
	defaultSQLiteDatabase    = "settings.sqlite3"
	defaultLevelDBDatabase   = "settings.leveldb"

	defaultScriptDirectory = "scripts"

	defaultLogDirectory = "log"
	defaultLogFile      = "settingsd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultStatsInterval = "1m"
)

// LoglevelMap - to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

// DatabaseType - where the settings are stored
type DatabaseType struct {
	Backend   string `gluamapper:"backend" json:"backend"`
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// Configuration - contents of the configuration file
type Configuration struct {
	DataDirectory   string                 `gluamapper:"data_directory" json:"data_directory"`
	PidFile         string                 `gluamapper:"pidfile" json:"pidfile"`
	Game            string                 `gluamapper:"game" json:"game"`
	Character       string                 `gluamapper:"character" json:"character"`
	ScriptDirectory string                 `gluamapper:"script_directory" json:"script_directory"`
	Scripts         []string               `gluamapper:"scripts" json:"scripts"`
	Database        DatabaseType           `gluamapper:"database" json:"database"`
	Codec           string                 `gluamapper:"codec" json:"codec"`
	Settings        settings.Configuration `gluamapper:"settings" json:"settings"`
	StatsInterval   string                 `gluamapper:"stats_interval" json:"stats_interval"`
	Logging         logger.Configuration   `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{
		DataDirectory:   defaultDataDirectory,
		PidFile:         "", // no PidFile by default
		ScriptDirectory: defaultScriptDirectory,

		Database: DatabaseType{
			Backend:   storage.SQLite,
			Directory: defaultDatabaseDirectory,
			Name:      defaultSQLiteDatabase,
		},

		Codec:         codec.CBOR,
		Settings:      settings.DefaultConfiguration(),
		StatsInterval: defaultStatsInterval,

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	variables := map[string]string{
		"directory": dataDirectory,
	}
	if err := configuration.ParseConfigurationFile(configurationFileName, options, variables); err != nil {
		return nil, err
	}

	// abort if the backend or codec is not recognised
	options.Database.Backend = strings.ToLower(options.Database.Backend)
	switch options.Database.Backend {
	case storage.SQLite, storage.Memory:
	case storage.LevelDB:
		// if database was not changed from default
		if options.Database.Name == defaultSQLiteDatabase {
			options.Database.Name = defaultLevelDBDatabase
		}
	default:
		return nil, fmt.Errorf("Database: backend %q is not supported", options.Database.Backend)
	}

	if _, err := codec.New(options.Codec); nil != err {
		return nil, fmt.Errorf("Codec: %q: %s", options.Codec, err)
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Database.Directory,
		&options.ScriptDirectory,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// scripts are relative to the script directory and get a
	// ".lua" extension if they have none
	for i, s := range options.Scripts {
		if "" == filepath.Ext(s) {
			s += ".lua"
		}
		options.Scripts[i] = util.EnsureAbsolute(options.ScriptDirectory, s)
	}

	// fail if any of these are not simple file names i.e. must
	// not contain path seperator, then add the correct directory
	// prefix, file item is first and corresponding directory is
	// second (or nil if no prefix can be added)
	mustNotBePaths := [][2]*string{
		{&options.Database.Name, &options.Database.Directory},
		{&options.Logging.File, nil},
	}
	for _, f := range mustNotBePaths {
		switch filepath.Dir(*f[0]) {
		case "", ".":
			if nil != f[1] {
				*f[0] = util.EnsureAbsolute(*f[1], *f[0])
			}
		default:
			return nil, fmt.Errorf("Files: %q is not plain name", *f[0])
		}
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
	} {
		*d = util.EnsureAbsolute(options.DataDirectory, *d)
		if err := os.MkdirAll(*d, 0700); nil != err {
			return nil, err
		}
	}

	// done
	return options, nil
}

// the scripts to run: those configured, or else every ".lua" file
// in the script directory
func scriptFiles(options *Configuration) ([]string, error) {
	if len(options.Scripts) > 0 {
		return options.Scripts, nil
	}
	return util.FilesWithExtension(options.ScriptDirectory, ".lua")
}
