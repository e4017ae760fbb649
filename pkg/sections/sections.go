// Package sections parses and serializes section-marked documents: single
// files that mix a managed region (regenerated on every update) with a
// preserved region (never auto-modified). The managed begin marker carries
// the release identifier; the remaining three markers are fixed.
//
// A file missing any of the four markers is "legacy": its entire content
// is treated as managed region and the preserved region starts empty.
// That rule is what migrates pre-marker installations forward without a
// special code path, and it is deliberately not an error.
package sections

import (
	"strings"
)

// Marker lines. HTML comments render invisibly in the markdown documents
// canon distributes.
const (
	managedBeginPrefix = "<!-- canon:managed:begin v"
	markerSuffix       = " -->"

	// ManagedEndMarker closes the managed region
	ManagedEndMarker = "<!-- canon:managed:end -->"

	// PreservedBeginMarker opens the operator's preserved region
	PreservedBeginMarker = "<!-- canon:preserved:begin -->"

	// PreservedEndMarker closes the operator's preserved region
	PreservedEndMarker = "<!-- canon:preserved:end -->"

	// PreservedPlaceholder is written in place of an empty preserved
	// region so operators can see where their notes belong.
	PreservedPlaceholder = "_Notes added here survive every content update._"
)

// ManagedBeginMarker returns the release-tagged opening marker.
func ManagedBeginMarker(version string) string {
	return managedBeginPrefix + version + markerSuffix
}

// Document is the parsed form of a section-marked file.
type Document struct {
	// Version is the release tag found in the managed begin marker; empty
	// for legacy documents.
	Version string

	// Managed is the region regenerated on every update.
	Managed string

	// Preserved is the region that carries forward unchanged unless the
	// operator edits it.
	Preserved string

	// Legacy is true when the file had no recognizable marker set and was
	// absorbed whole into the managed region.
	Legacy bool
}

// Parse splits a file into its managed and preserved regions. All four
// markers must appear, in order; otherwise the whole content becomes the
// managed region and the preserved region starts empty. Parse is total:
// it never fails.
func Parse(text string) Document {
	lines := strings.Split(text, "\n")

	mb, me, pb, pe := -1, -1, -1, -1
	version := ""

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case mb == -1 && isManagedBegin(trimmed):
			mb = i
			version = managedBeginVersion(trimmed)
		case mb != -1 && me == -1 && trimmed == ManagedEndMarker:
			me = i
		case me != -1 && pb == -1 && trimmed == PreservedBeginMarker:
			pb = i
		case pb != -1 && pe == -1 && trimmed == PreservedEndMarker:
			pe = i
		}
	}

	if mb == -1 || me == -1 || pb == -1 || pe == -1 {
		return Document{Managed: text, Legacy: true}
	}

	return Document{
		Version:   version,
		Managed:   strings.Join(lines[mb+1:me], "\n"),
		Preserved: strings.Join(lines[pb+1:pe], "\n"),
	}
}

// Serialize renders a section-marked file for the given release. Both
// marker pairs are always emitted; an empty preserved region is replaced
// with the human-readable placeholder. Regions are written in canonical
// form, one trailing newline each, so Parse(Serialize(v, m, p)) returns
// (m, p) whenever neither region contains a marker line and neither ends
// in a newline.
func Serialize(version, managed, preserved string) string {
	var b strings.Builder

	b.WriteString(ManagedBeginMarker(version))
	b.WriteString("\n")
	writeRegion(&b, managed)
	b.WriteString(ManagedEndMarker)
	b.WriteString("\n\n")

	if strings.TrimSpace(preserved) == "" {
		preserved = PreservedPlaceholder
	}
	b.WriteString(PreservedBeginMarker)
	b.WriteString("\n")
	writeRegion(&b, preserved)
	b.WriteString(PreservedEndMarker)
	b.WriteString("\n")

	return b.String()
}

func writeRegion(b *strings.Builder, region string) {
	if region == "" {
		return
	}
	b.WriteString(region)
	if !strings.HasSuffix(region, "\n") {
		b.WriteString("\n")
	}
}

func isManagedBegin(line string) bool {
	return strings.HasPrefix(line, managedBeginPrefix) && strings.HasSuffix(line, markerSuffix)
}

func managedBeginVersion(line string) string {
	v := strings.TrimPrefix(line, managedBeginPrefix)
	return strings.TrimSuffix(v, markerSuffix)
}
