// Package cache stores compiled-file artifacts on disk so repeated builds
// of an unchanged source (and unchanged registry) skip the full
// lex/parse/check/lower pipeline.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"hearthc/internal/diag"
	"hearthc/internal/sema"
)

// schemaVersion is bumped whenever Artifact's shape changes; a mismatch is
// treated as a cache miss rather than a decode error.
const schemaVersion uint16 = 1

// Digest identifies one cache entry: the source bytes and the registry
// document that checked it, both folded into one hash so a registry change
// invalidates every artifact compiled against it.
type Digest [sha256.Size]byte

// Key derives the cache Digest for a (source, registry) pair.
func Key(source, registryDoc []byte) Digest {
	h := sha256.New()
	h.Write(source)
	h.Write([]byte{0})
	h.Write(registryDoc)
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// Artifact is everything a cache hit needs to replay a compile without
// re-running the pipeline: the diagnostics produced, the entity constraints
// a runtime must validate, and the printed HIR form for downstream tools.
type Artifact struct {
	Schema      uint16
	Diagnostics []diag.Diagnostic
	Constraints []sema.EntityConstraint
	HIRText     string
}

// Disk is a thread-safe on-disk store of Artifacts, keyed by Digest.
type Disk struct {
	mu  sync.RWMutex
	dir string
}

// OpenDisk opens (creating if needed) the on-disk cache for app under the
// user's cache directory ($XDG_CACHE_HOME, or ~/.cache).
func OpenDisk(app string) (*Disk, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app, "artifacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Disk{dir: dir}, nil
}

func (c *Disk) pathFor(key Digest) string {
	return filepath.Join(c.dir, hex.EncodeToString(key[:])+".mp")
}

// Get returns the cached Artifact for key, or ok=false on a miss (including
// a schema-version mismatch, which is treated as a miss rather than an
// error).
func (c *Disk) Get(key Digest) (Artifact, bool) {
	if c == nil {
		return Artifact{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	raw, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		return Artifact{}, false
	}
	var a Artifact
	if err := msgpack.Unmarshal(raw, &a); err != nil {
		return Artifact{}, false
	}
	if a.Schema != schemaVersion {
		return Artifact{}, false
	}
	return a, true
}

// Put writes an Artifact to disk, replacing any existing entry for key.
func (c *Disk) Put(key Digest, a Artifact) error {
	if c == nil {
		return nil
	}
	a.Schema = schemaVersion

	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := msgpack.Marshal(&a)
	if err != nil {
		return fmt.Errorf("cache: marshal artifact: %w", err)
	}

	path := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	tmpName := f.Name()
	if _, err := f.Write(raw); err != nil {
		f.Close()
		os.Remove(tmpName)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
