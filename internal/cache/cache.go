// Package cache memoizes compiled documents for the serve path. The
// compiler core stays cache-free; callers that care about recompilation
// cost key entries by a content hash of the compile request.
package cache

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/davrell/tablegql/internal/document"
)

const defaultSize = 256

// Key derives the content hash for a compile request from its parts
// (table name, operation, selection spec, options).
func Key(parts ...any) (string, error) {
	b, err := json.Marshal(parts)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", md5.Sum(b)), nil
}

// Documents is an expiring LRU of compiled documents. Concurrent loads
// of the same key are collapsed into a single compile.
type Documents struct {
	lru   *expirable.LRU[string, *document.Compiled]
	group singleflight.Group
}

// New creates a document cache. size <= 0 falls back to the default;
// ttl 0 disables expiry.
func New(size int, ttl time.Duration) *Documents {
	if size <= 0 {
		size = defaultSize
	}
	return &Documents{lru: expirable.NewLRU[string, *document.Compiled](size, nil, ttl)}
}

// Load returns the cached document for key, compiling and storing it via
// fn on a miss. Compile errors are never cached.
func (d *Documents) Load(key string, fn func() (*document.Compiled, error)) (*document.Compiled, error) {
	if v, ok := d.lru.Get(key); ok {
		return v, nil
	}
	v, err, _ := d.group.Do(key, func() (any, error) {
		if v, ok := d.lru.Get(key); ok {
			return v, nil
		}
		compiled, err := fn()
		if err != nil {
			return nil, err
		}
		d.lru.Add(key, compiled)
		return compiled, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*document.Compiled), nil
}

// Len reports the number of cached documents.
func (d *Documents) Len() int { return d.lru.Len() }
