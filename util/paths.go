// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package util - file path helpers shared by the commands
package util

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// EnsureAbsolute - ensure the path is absolute
// if not, prepend the directory to make absolute path
func EnsureAbsolute(directory string, filePath string) string {
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(directory, filePath)
	}
	return filepath.Clean(filePath)
}

// EnsureFileExists - check if a regular file exists
func EnsureFileExists(name string) bool {
	info, err := os.Stat(name)
	return nil == err && info.Mode().IsRegular()
}

// FilesWithExtension - sorted absolute paths of the regular files in
// a directory that have the extension, e.g. ".lua"
//
// sub-directories are not searched
func FilesWithExtension(directory string, extension string) ([]string, error) {
	entries, err := os.ReadDir(directory)
	if nil != err {
		return nil, err
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !strings.EqualFold(filepath.Ext(name), extension) {
			continue
		}
		files = append(files, EnsureAbsolute(directory, name))
	}
	sort.Strings(files)
	return files, nil
}
