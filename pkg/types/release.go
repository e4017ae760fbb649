package types

import "sort"

// Release is a compiled content release: the input to an update. Files maps
// tree-relative output paths to their freshly compiled content. For paths in
// Composite the content is the managed region only; the preserved region is
// carried forward from the installed file at plan time.
type Release struct {
	Version   string            `json:"version"`
	Files     map[string]string `json:"-"`
	Composite map[string]bool   `json:"composite,omitempty"`

	// Customizable holds extra allowlist patterns the bundle manifest adds
	// to the built-in OperatorCustomizable rules.
	Customizable []string `json:"customizable,omitempty"`
}

// Paths returns the release's output paths in sorted order. Plan and apply
// walk releases in this order so runs are deterministic.
func (r *Release) Paths() []string {
	paths := make([]string, 0, len(r.Files))
	for p := range r.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// IsComposite reports whether the given output path is a section-marked
// document whose preserved region must survive the update.
func (r *Release) IsComposite(path string) bool {
	return r.Composite[path]
}
