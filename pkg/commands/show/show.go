// Package show reads one installed document from the managed tree and
// renders markdown for the terminal.
package show

import (
	stderrors "errors"
	"io/fs"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/canonhq/canon/pkg/errors"
	"github.com/canonhq/canon/pkg/logging"
	"github.com/canonhq/canon/pkg/paths"
	"github.com/canonhq/canon/pkg/types"
)

// Options defines the options for the Show command
type Options struct {
	// ProjectRoot is the project directory that holds the managed tree
	ProjectRoot string
	// FileSystem is the filesystem to operate on
	FileSystem types.FS
	// Path is the tree-relative path of the document to show
	Path string
	// Plain disables markdown rendering
	Plain bool
	// Width wraps rendered output at the given column; 0 auto-detects
	Width int
}

// Result carries the document both raw and rendered
type Result struct {
	Path     string `json:"path"`
	Raw      string `json:"raw"`
	Rendered string `json:"rendered"`
}

// Show loads a tree file. Markdown documents are rendered with glamour
// unless Plain is set; on any rendering problem the raw content is
// returned instead, so show never fails on styling.
func Show(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.show")
	logger.Debug().
		Str("projectRoot", opts.ProjectRoot).
		Str("path", opts.Path).
		Bool("plain", opts.Plain).
		Msg("Starting show command")

	if opts.Path == "" {
		return nil, errors.New(errors.ErrInvalidInput, "no document path given")
	}

	p, err := paths.New(opts.ProjectRoot)
	if err != nil {
		return nil, err
	}

	target := p.TreePath(opts.Path)
	content, err := opts.FileSystem.ReadFile(target)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, errors.ErrFileNotFound, "no file %s in the managed tree", opts.Path)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", opts.Path)
	}

	raw := string(content)
	result := &Result{Path: opts.Path, Raw: raw, Rendered: raw}

	if !opts.Plain && strings.HasSuffix(opts.Path, ".md") {
		result.Rendered = renderMarkdown(raw, opts.Width)
	}

	logger.Debug().Str("path", opts.Path).Int("bytes", len(raw)).Msg("Show command completed")
	return result, nil
}

// renderMarkdown runs content through glamour, falling back to the raw
// text on any error.
func renderMarkdown(content string, width int) string {
	options := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		options = append(options, glamour.WithWordWrap(width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}

	return rendered
}
