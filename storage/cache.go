// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"time"

	cache "github.com/patrickmn/go-cache"
)

type dbOperation int

const (
	dbPut dbOperation = iota
	dbDelete
)

const (
	defaultCleanup    = 1 * time.Minute
	defaultExpiration = 2 * time.Minute
)

// recently committed rows, so that a scope reloaded shortly after its
// owner was evicted does not need a disk read
type blobCache struct {
	cache *cache.Cache
}

type cacheData struct {
	op    dbOperation
	value []byte
}

func newBlobCache() *blobCache {
	return &blobCache{
		cache: cache.New(defaultExpiration, defaultCleanup),
	}
}

// returns:
//   blob, found, known
// known is false if the cache has no information about the key
func (c *blobCache) Get(key string) ([]byte, bool, bool) {
	obj, known := c.cache.Get(key)
	if !known {
		return nil, false, false
	}

	data := obj.(cacheData)
	// if key is deleted, then cache should return not found
	if dbDelete == data.op {
		return nil, false, true
	}

	return copyBytes(data.value), true, true
}

func (c *blobCache) Set(op dbOperation, key string, value []byte) {
	cached := cacheData{
		op:    op,
		value: copyBytes(value),
	}
	c.cache.Set(key, cached, cache.DefaultExpiration)
}

func (c *blobCache) Clear() {
	c.cache.Flush()
}

func copyBytes(b []byte) []byte {
	if nil == b {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
