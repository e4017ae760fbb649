package bundle

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aymerick/raymond"
	"github.com/beevik/etree"
	"github.com/bmatcuk/doublestar/v4"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/canonhq/canon/pkg/errors"
	"github.com/canonhq/canon/pkg/filesystem"
	"github.com/canonhq/canon/pkg/types"
)

// Descriptor is the distributor-side bundle source description read from
// canon-bundle.toml.
type Descriptor struct {
	Version      string          `toml:"version"`
	Sources      []string        `toml:"sources"`
	Customizable []string        `toml:"customizable"`
	Commands     []CommandDef    `toml:"command"`
	Permissions  []PermissionDef `toml:"permission"`
	Agents       []AgentDef      `toml:"agent"`
}

// CommandDef describes one generated command wrapper document.
type CommandDef struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Playbook    string `toml:"playbook"`
}

// PermissionDef is one editor permission entry.
type PermissionDef struct {
	Tool   string `toml:"tool"`
	Access string `toml:"access"`
}

// AgentDef describes one assembled assistant entry point. Includes are
// payload paths whose content is concatenated below the header; the
// resulting file is composite so operator notes survive recompiles.
type AgentDef struct {
	Name     string   `toml:"name"`
	Role     string   `toml:"role"`
	Includes []string `toml:"includes"`
}

// commandTemplate renders one command wrapper markdown file.
const commandTemplate = `# /{{{name}}}

{{{description}}}

Open {{{playbook}}} and work through it step by step. Stop and report if a
step cannot be completed.
`

// agentTemplate renders the header of an assembled agent document.
const agentTemplate = `# {{{name}}}

{{{role}}}
`

// LoadDescriptor reads and parses canon-bundle.toml from srcDir.
func LoadDescriptor(fsys types.FS, srcDir string) (*Descriptor, error) {
	descPath := filepath.Join(srcDir, DescriptorFileName)
	data, err := fsys.ReadFile(descPath)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, errors.ErrBundleNotFound, "no bundle descriptor at %s", descPath)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read bundle descriptor %s", descPath)
	}

	var d Descriptor
	if err := toml.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrapf(err, errors.ErrBundleInvalid, "malformed bundle descriptor %s", descPath)
	}
	if d.Version == "" {
		return nil, errors.New(errors.ErrBundleInvalid, "bundle descriptor has no version")
	}

	return &d, nil
}

// Compile assembles a compiled bundle at outDir from the sources described
// by srcDir/canon-bundle.toml, then loads and returns it. Source files
// matching the descriptor globs are copied through at their own relative
// paths; command wrappers, editor permissions and agent entry points are
// generated.
func Compile(fsys types.FS, srcDir, outDir string) (*types.Release, error) {
	d, err := LoadDescriptor(fsys, srcDir)
	if err != nil {
		return nil, err
	}

	outputs := make(map[string]string)
	addOutput := func(rel, content string) error {
		if !validRelPath(rel) {
			return errors.Newf(errors.ErrBundleCompile, "illegal output path %q", rel)
		}
		if _, exists := outputs[rel]; exists {
			return errors.Newf(errors.ErrBundleCompile, "duplicate output path %s", rel)
		}
		outputs[rel] = content
		return nil
	}

	// Source files copied through verbatim
	srcFiles, err := filesystem.ListFiles(fsys, srcDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrBundleCompile, "cannot enumerate bundle sources in %s", srcDir)
	}
	for _, pattern := range d.Sources {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Newf(errors.ErrBundleCompile, "invalid source pattern %q", pattern)
		}
		for _, rel := range srcFiles {
			if rel == DescriptorFileName {
				continue
			}
			if matched, _ := doublestar.Match(pattern, rel); !matched {
				continue
			}
			if _, exists := outputs[rel]; exists {
				continue
			}
			data, err := fsys.ReadFile(filepath.Join(srcDir, filepath.FromSlash(rel)))
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrBundleCompile, "cannot read source %s", rel)
			}
			if err := addOutput(rel, string(data)); err != nil {
				return nil, err
			}
		}
	}

	// Command wrappers
	for _, cmd := range d.Commands {
		if cmd.Name == "" {
			return nil, errors.New(errors.ErrBundleCompile, "command definition has no name")
		}
		rendered, err := raymond.Render(commandTemplate, map[string]interface{}{
			"name":        cmd.Name,
			"description": cmd.Description,
			"playbook":    cmd.Playbook,
		})
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrBundleCompile, "cannot render command %s", cmd.Name)
		}
		if err := addOutput("commands/"+cmd.Name+".md", rendered); err != nil {
			return nil, err
		}
	}

	// Editor permissions
	if len(d.Permissions) > 0 {
		xml, err := permissionsXML(d.Version, d.Permissions)
		if err != nil {
			return nil, err
		}
		if err := addOutput("editor/permissions.xml", xml); err != nil {
			return nil, err
		}
	}

	// Assembled agent entry points, marked composite
	var composite []string
	for _, agent := range d.Agents {
		if agent.Name == "" {
			return nil, errors.New(errors.ErrBundleCompile, "agent definition has no name")
		}
		content, err := assembleAgent(agent, outputs)
		if err != nil {
			return nil, err
		}
		rel := "agents/" + agent.Name + ".md"
		if err := addOutput(rel, content); err != nil {
			return nil, err
		}
		composite = append(composite, rel)
	}
	sort.Strings(composite)

	if len(outputs) == 0 {
		return nil, errors.New(errors.ErrBundleCompile, "bundle compiles to no output files")
	}

	// Write the payload and manifest
	rels := make([]string, 0, len(outputs))
	for rel := range outputs {
		rels = append(rels, rel)
	}
	sort.Strings(rels)

	for _, rel := range rels {
		target := filepath.Join(outDir, PayloadDirName, filepath.FromSlash(rel))
		if err := filesystem.WriteFileAtomic(fsys, target, []byte(outputs[rel]), 0644); err != nil {
			return nil, errors.Wrapf(err, errors.ErrBundleCompile, "cannot write payload file %s", rel)
		}
	}

	manifestData, err := yaml.Marshal(manifest{
		Version:      d.Version,
		Composite:    composite,
		Customizable: d.Customizable,
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrBundleCompile, "cannot encode bundle manifest")
	}
	if err := filesystem.WriteFileAtomic(fsys, filepath.Join(outDir, ManifestFileName), manifestData, 0644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrBundleCompile, "cannot write bundle manifest")
	}

	log.Info().
		Str("version", d.Version).
		Int("files", len(outputs)).
		Str("out", outDir).
		Msg("Bundle compiled")

	return Load(fsys, outDir)
}

// assembleAgent renders the agent header and appends each included payload
// file in order.
func assembleAgent(agent AgentDef, outputs map[string]string) (string, error) {
	header, err := raymond.Render(agentTemplate, map[string]interface{}{
		"name": agent.Name,
		"role": agent.Role,
	})
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrBundleCompile, "cannot render agent %s", agent.Name)
	}

	var b strings.Builder
	b.WriteString(header)

	for _, include := range agent.Includes {
		content, ok := outputs[include]
		if !ok {
			return "", errors.Newf(errors.ErrBundleCompile, "agent %s includes %s which is not in the bundle", agent.Name, include)
		}
		b.WriteString("\n")
		b.WriteString(content)
		if !strings.HasSuffix(content, "\n") {
			b.WriteString("\n")
		}
	}

	return b.String(), nil
}

// permissionsXML builds editor/permissions.xml. Element and attribute
// order follows the descriptor so recompiles are byte-stable.
func permissionsXML(version string, defs []PermissionDef) (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("permissions")
	root.CreateAttr("version", version)

	for _, def := range defs {
		if def.Tool == "" || def.Access == "" {
			return "", errors.New(errors.ErrBundleCompile, "permission entries need both tool and access")
		}
		e := root.CreateElement("permission")
		e.CreateAttr("tool", def.Tool)
		e.CreateAttr("access", def.Access)
	}

	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrBundleCompile, "cannot serialize permissions")
	}
	return out, nil
}
