// Package ledger persists the per-release record of content fingerprints.
//
// The on-disk format is line oriented: the first line is the release
// identifier, every following line is `path:hash`. The split is on the
// last colon so paths containing colons stay parseable. A path with no
// entry means "no recorded baseline", which the merge resolver handles
// explicitly; it is never an error here.
package ledger

import (
	stderrors "errors"
	"io/fs"
	"sort"
	"strings"

	"github.com/canonhq/canon/pkg/errors"
	"github.com/canonhq/canon/pkg/filesystem"
	"github.com/canonhq/canon/pkg/logging"
	"github.com/canonhq/canon/pkg/types"
)

// Ledger is the parsed form: one release identifier plus the hash recorded
// for each path the tool last wrote. It is a plain value, threaded through
// plan and apply explicitly.
type Ledger struct {
	Version string
	Entries map[string]string
}

// New returns an empty ledger for the given release identifier
func New(version string) *Ledger {
	return &Ledger{
		Version: version,
		Entries: make(map[string]string),
	}
}

// Parse decodes ledger text. An empty input yields an empty ledger with an
// empty version. Blank lines are ignored; a non-blank line without a colon
// is malformed.
func Parse(text string) (*Ledger, error) {
	lines := strings.Split(text, "\n")

	l := New(strings.TrimSpace(lines[0]))

	for i, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Split on the last colon: paths may contain the delimiter,
		// hashes never do.
		idx := strings.LastIndex(line, ":")
		if idx <= 0 || idx == len(line)-1 {
			return nil, errors.Newf(errors.ErrLedgerParse, "malformed ledger line %d: %q", i+2, line)
		}

		path := line[:idx]
		hash := line[idx+1:]
		l.Entries[path] = hash
	}

	return l, nil
}

// Serialize encodes the ledger: version line first, then `path:hash` lines
// sorted by path, with a trailing newline.
func (l *Ledger) Serialize() string {
	paths := make([]string, 0, len(l.Entries))
	for p := range l.Entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var b strings.Builder
	b.WriteString(l.Version)
	b.WriteString("\n")
	for _, p := range paths {
		b.WriteString(p)
		b.WriteString(":")
		b.WriteString(l.Entries[p])
		b.WriteString("\n")
	}
	return b.String()
}

// Lookup returns the recorded hash for a path. The second return is false
// when there is no baseline for the path.
func (l *Ledger) Lookup(path string) (string, bool) {
	hash, ok := l.Entries[path]
	return hash, ok
}

// Set records the hash for a path
func (l *Ledger) Set(path, hash string) {
	l.Entries[path] = hash
}

// Delete removes a path's entry, if any. Conflicted paths are deleted so
// the next run re-evaluates them instead of treating them as resolved.
func (l *Ledger) Delete(path string) {
	delete(l.Entries, path)
}

// Len returns the number of recorded entries
func (l *Ledger) Len() int {
	return len(l.Entries)
}

// Clone returns an independent copy. Apply mutates a clone so a failed run
// never corrupts the caller's view of the previous ledger.
func (l *Ledger) Clone() *Ledger {
	c := New(l.Version)
	for p, h := range l.Entries {
		c.Entries[p] = h
	}
	return c
}

// Load reads and parses the ledger at path. A missing file is a valid
// empty ledger, covering first installs.
func Load(fsys types.FS, path string) (*Ledger, error) {
	logger := logging.GetLogger("ledger")

	data, err := fsys.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			logger.Debug().Str("path", path).Msg("No ledger found, starting empty")
			return New(""), nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read ledger at %s", path)
	}

	l, err := Parse(string(data))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrLedgerParse, "cannot parse ledger at %s", path)
	}

	logger.Debug().
		Str("path", path).
		Str("version", l.Version).
		Int("entries", l.Len()).
		Msg("Ledger loaded")
	return l, nil
}

// Save writes the ledger atomically
func Save(fsys types.FS, path string, l *Ledger) error {
	if err := filesystem.WriteFileAtomic(fsys, path, []byte(l.Serialize()), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrLedgerWrite, "cannot save ledger to %s", path)
	}

	logger := logging.GetLogger("ledger")
	logger.Debug().
		Str("path", path).
		Str("version", l.Version).
		Int("entries", l.Len()).
		Msg("Ledger saved")
	return nil
}
