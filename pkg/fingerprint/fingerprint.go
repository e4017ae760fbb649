// Package fingerprint computes the content digests canon uses to detect
// operator drift. Equal content always yields equal fingerprints; the
// fingerprint is the sole signal distinguishing operator edits from
// untouched distributor defaults.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/canonhq/canon/pkg/errors"
	"github.com/canonhq/canon/pkg/types"
)

// scanWorkers bounds the concurrent reads of a tree scan
const scanWorkers = 8

// Fingerprint returns the SHA-256 digest of content as lowercase hex.
func Fingerprint(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Bytes is Fingerprint for raw file data.
func Bytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Short returns a truncated digest suitable for directory keys and log
// fields. Not collision-resistant; never used for drift decisions.
func Short(content string) string {
	return Fingerprint(content)[:8]
}

// ScanTree fingerprints root/<rel> for every rel in relPaths, reading
// through the filesystem abstraction with a bounded worker group. The
// result maps each relative path to its digest. Any unreadable file fails
// the scan.
func ScanTree(fsys types.FS, root string, relPaths []string) (map[string]string, error) {
	hashes := make(map[string]string, len(relPaths))
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(scanWorkers)

	for _, rel := range relPaths {
		rel := rel
		g.Go(func() error {
			data, err := fsys.ReadFile(filepath.Join(root, rel))
			if err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "cannot fingerprint %s", rel)
			}
			digest := Bytes(data)

			mu.Lock()
			hashes[rel] = digest
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return hashes, nil
}
