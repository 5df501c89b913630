// Package cache persists compiled patterns to disk so that a recurring
// invocation of sprequery does not pay the lex/parse/compile cost again for
// a pattern it has already seen. A cache miss or a corrupt entry is never
// an error the caller needs to handle specially: Load simply reports a
// miss and the caller recompiles from source, the same way it would on a
// cold cache.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dekarrin/rezi"
	"github.com/silvaine/sprestream/internal/spre"
)

// entry is the on-disk, rezi-encoded form of a cached pattern, keyed by
// the pattern's source text exactly as given.
type entry struct {
	Source   string
	Formulas []*spre.Formula
	NFA      spre.NFASnapshot
}

// Cache stores compiled patterns under a directory, one file per distinct
// source text.
type Cache struct {
	dir string
}

// New returns a Cache rooted at dir. The directory is created on first
// Store, not here.
func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// Load returns the cached pattern for source, if present and readable.
// Any error (missing file, corrupt encoding, schema drift) is treated as a
// miss.
func (c *Cache) Load(source string, opts spre.CompileOptions) (*spre.Pattern, bool) {
	data, err := os.ReadFile(c.path(source))
	if err != nil {
		return nil, false
	}

	var e entry
	if _, err := rezi.DecBinary(data, &e); err != nil {
		return nil, false
	}
	if e.Source != source {
		return nil, false
	}

	return spre.FromCompiled(e.Source, e.Formulas, e.NFA, opts), true
}

// Store persists p under its source text, overwriting any previous entry.
func (c *Cache) Store(p *spre.Pattern) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("cache: creating %s: %w", c.dir, err)
	}

	formulas, nfa := p.SnapshotParts()
	e := entry{Source: p.Source, Formulas: formulas, NFA: nfa}

	data := rezi.EncBinary(&e)
	if err := os.WriteFile(c.path(p.Source), data, 0o644); err != nil {
		return fmt.Errorf("cache: writing entry for %q: %w", p.Source, err)
	}
	return nil
}

func (c *Cache) path(source string) string {
	sum := sha256.Sum256([]byte(source))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".rezi")
}
