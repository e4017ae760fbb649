// Package bundle loads and compiles release bundles.
//
// A compiled bundle is a directory with a manifest.yml (version, composite
// list, extra customizable allowlist) and a payload/ tree holding one file
// per output path. Load turns such a directory into a Release; Compile is
// the distributor-side step that assembles the payload from markdown
// sources, command wrapper templates and permission definitions described
// by canon-bundle.toml.
package bundle

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/canonhq/canon/pkg/errors"
	"github.com/canonhq/canon/pkg/filesystem"
	"github.com/canonhq/canon/pkg/logging"
	"github.com/canonhq/canon/pkg/types"
)

var log = logging.GetLogger("bundle")

const (
	// ManifestFileName is the bundle manifest inside a compiled bundle
	ManifestFileName = "manifest.yml"

	// PayloadDirName holds the compiled output files
	PayloadDirName = "payload"

	// DescriptorFileName is the distributor-side source descriptor
	DescriptorFileName = "canon-bundle.toml"
)

// manifest is the YAML shape of manifest.yml
type manifest struct {
	Version      string   `yaml:"version"`
	Composite    []string `yaml:"composite,omitempty"`
	Customizable []string `yaml:"customizable,omitempty"`
}

// Load reads a compiled bundle directory into a Release. The manifest is
// decoded strictly; the payload tree is read in full and validated so the
// engine never sees an absolute or parent-escaping output path.
func Load(fsys types.FS, dir string) (*types.Release, error) {
	manifestPath := filepath.Join(dir, ManifestFileName)
	data, err := fsys.ReadFile(manifestPath)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, errors.ErrBundleNotFound, "no bundle manifest at %s", manifestPath)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read bundle manifest %s", manifestPath)
	}

	var m manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, errors.Wrapf(err, errors.ErrBundleInvalid, "malformed bundle manifest %s", manifestPath)
	}
	if m.Version == "" {
		return nil, errors.New(errors.ErrBundleInvalid, "bundle manifest has no version")
	}

	payloadDir := filepath.Join(dir, PayloadDirName)
	rels, err := filesystem.ListFiles(fsys, payloadDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrBundleInvalid, "bundle has no readable payload directory")
	}

	files := make(map[string]string, len(rels))
	for _, rel := range rels {
		if !validRelPath(rel) {
			return nil, errors.Newf(errors.ErrBundleInvalid, "illegal payload path %q", rel)
		}
		content, err := fsys.ReadFile(filepath.Join(payloadDir, filepath.FromSlash(rel)))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read payload file %s", rel)
		}
		files[rel] = string(content)
	}

	composite := make(map[string]bool, len(m.Composite))
	for _, p := range m.Composite {
		if !validRelPath(p) {
			return nil, errors.Newf(errors.ErrBundleInvalid, "illegal composite path %q", p)
		}
		if _, ok := files[p]; !ok {
			return nil, errors.Newf(errors.ErrBundleInvalid, "composite path %s missing from payload", p)
		}
		composite[p] = true
	}

	for _, pattern := range m.Customizable {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Newf(errors.ErrBundleInvalid, "invalid customizable pattern %q", pattern)
		}
	}

	log.Debug().
		Str("version", m.Version).
		Int("files", len(files)).
		Int("composite", len(composite)).
		Msg("Bundle loaded")

	return &types.Release{
		Version:      m.Version,
		Files:        files,
		Composite:    composite,
		Customizable: m.Customizable,
	}, nil
}

// validRelPath accepts clean, relative, slash-separated paths that stay
// inside the tree.
func validRelPath(p string) bool {
	if p == "" || path.IsAbs(p) {
		return false
	}
	if path.Clean(p) != p {
		return false
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return false
		}
	}
	return true
}
