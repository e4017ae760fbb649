package style

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/canonhq/canon/pkg/errors"
	"github.com/canonhq/canon/pkg/snapshot"
	"github.com/canonhq/canon/pkg/types"
	"github.com/canonhq/canon/pkg/ui"
)

// Renderer turns command results into display text. JSON output never goes
// through a Renderer; the CLI marshals result structs directly.
type Renderer interface {
	RenderPlan(plan *types.UpdatePlan) string
	RenderUpdateResult(result *types.UpdateResult) string
	RenderRollback(result *types.RollbackResult) string
	RenderTreeStatus(status *types.TreeStatus) string
	RenderSnapshots(infos []snapshot.Info) string
	RenderError(err error) string
}

// NewRenderer picks the renderer for a resolved format: styled for
// terminals, plain for everything else.
func NewRenderer(format ui.Format) Renderer {
	if format == ui.FormatTerminal {
		return NewTerminalRenderer()
	}
	return NewPlainRenderer()
}

// TerminalRenderer renders styled output for interactive terminals
type TerminalRenderer struct{}

// NewTerminalRenderer creates a styled renderer
func NewTerminalRenderer() *TerminalRenderer {
	return &TerminalRenderer{}
}

// RenderPlan renders the planned outcome for every path plus a tally line.
func (r *TerminalRenderer) RenderPlan(plan *types.UpdatePlan) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(fmt.Sprintf("Update plan %s → %s",
		versionLabel(plan.FromVersion), plan.ToVersion)) + "\n\n")

	for _, change := range plan.Changes {
		b.WriteString(renderChange(change) + "\n")
	}

	for _, w := range plan.Warnings {
		b.WriteString(fmt.Sprintf("%s %s: %s\n",
			WarningIndicator, PathStyle.Render(w.Path), w.Message))
	}

	b.WriteString("\n" + renderTally(plan.CountByAction()))
	return strings.TrimRight(b.String(), "\n")
}

func renderChange(change types.PlannedChange) string {
	var indicator, action string
	switch change.Outcome.Action {
	case types.ActionReplace:
		indicator = PendingIndicator
		action = ReplaceStyle.Render("replace ")
	case types.ActionMerge:
		indicator = PendingIndicator
		action = MergeStyle.Render("merge   ")
	case types.ActionConflict:
		indicator = WarningIndicator
		action = ConflictStyle.Render("conflict")
	default:
		indicator = InfoIndicator
		action = SkipStyle.Render("skip    ")
	}
	return fmt.Sprintf("%s %s %s", indicator, action, PathStyle.Render(change.Path))
}

func renderTally(counts map[types.MergeAction]int) string {
	return MutedStyle.Render(fmt.Sprintf("%d replace, %d merge, %d conflict, %d skip",
		counts[types.ActionReplace], counts[types.ActionMerge],
		counts[types.ActionConflict], counts[types.ActionSkip]))
}

// RenderUpdateResult renders the outcome of an apply, including conflict
// and residual listings when present.
func (r *TerminalRenderer) RenderUpdateResult(result *types.UpdateResult) string {
	var b strings.Builder

	switch result.Status {
	case types.StatusDryRunReported:
		b.WriteString(SubtitleStyle.Render(fmt.Sprintf("Dry run: %s → %s, nothing written",
			versionLabel(result.FromVersion), result.ToVersion)) + "\n")
	case types.StatusApplied:
		b.WriteString(fmt.Sprintf("%s %s\n", SuccessIndicator,
			SubtitleStyle.Render(fmt.Sprintf("Updated to %s", result.ToVersion))))
	case types.StatusPartiallyFailed:
		b.WriteString(fmt.Sprintf("%s %s\n", ErrorIndicator,
			ErrorStyle.Render("Update stopped partway")))
	default:
		b.WriteString(SubtitleStyle.Render(string(result.Status)) + "\n")
	}

	b.WriteString(MutedStyle.Render(fmt.Sprintf("%d updated, %d merged, %d skipped, %d conflicted",
		len(result.Updated), len(result.Merged), len(result.Skipped), len(result.Conflicted))) + "\n")

	if len(result.Conflicted) > 0 {
		b.WriteString("\n" + WarningStyle.Render("Conflicts need manual review:") + "\n")
		for _, p := range result.Conflicted {
			b.WriteString(ListItemStyle.Render(fmt.Sprintf("%s %s", WarningIndicator, PathStyle.Render(p))) + "\n")
		}
	}

	if len(result.ResidualPaths) > 0 {
		b.WriteString("\n" + ErrorStyle.Render("Never written (run rollback, then retry):") + "\n")
		for _, p := range result.ResidualPaths {
			b.WriteString(ListItemStyle.Render(fmt.Sprintf("%s %s", ErrorIndicator, PathStyle.Render(p))) + "\n")
		}
	}

	for _, w := range result.Warnings {
		b.WriteString(fmt.Sprintf("%s %s: %s\n", WarningIndicator, PathStyle.Render(w.Path), w.Message))
	}

	if result.SnapshotPath != "" {
		b.WriteString(MutedStyle.Render(fmt.Sprintf("snapshot: %s", result.SnapshotPath)) + "\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// RenderRollback renders the outcome of a snapshot restore.
func (r *TerminalRenderer) RenderRollback(result *types.RollbackResult) string {
	return fmt.Sprintf("%s %s %s", SuccessIndicator,
		SubtitleStyle.Render(fmt.Sprintf("Restored version %s (%d files)",
			result.RestoredVersion, result.FilesRestored)),
		MutedStyle.Render("from "+result.SnapshotPath))
}

// RenderTreeStatus renders the per-path drift report.
func (r *TerminalRenderer) RenderTreeStatus(status *types.TreeStatus) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(fmt.Sprintf("Managed tree at version %s",
		versionLabel(status.Version))) + "\n\n")

	for _, p := range status.Paths {
		b.WriteString(RenderPathStatus(p) + "\n")
	}

	b.WriteString("\n")
	if status.HasDrift() {
		b.WriteString(fmt.Sprintf("%s %s", WarningIndicator,
			WarningStyle.Render(fmt.Sprintf("%d path(s) drifted", status.DriftCount))))
	} else {
		b.WriteString(fmt.Sprintf("%s %s", SuccessIndicator,
			SuccessStyle.Render("no drift")))
	}

	return b.String()
}

// RenderSnapshots renders the snapshot inventory, newest first.
func (r *TerminalRenderer) RenderSnapshots(infos []snapshot.Info) string {
	if len(infos) == 0 {
		return MutedStyle.Render("No snapshots")
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Snapshots") + "\n\n")
	for _, info := range infos {
		b.WriteString(fmt.Sprintf("%s %s  %s  %s\n",
			InfoIndicator,
			Bold(info.Version),
			MutedStyle.Render(info.CreatedAt.Format("2006-01-02 15:04")),
			MutedStyle.Render(fmt.Sprintf("%d files", info.FileCount))))
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderError renders an error with its code when one is attached.
func (r *TerminalRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		return fmt.Sprintf("%s %s %s",
			pterm.Error.Prefix.Text,
			pterm.Error.MessageStyle.Sprint(fmt.Sprintf("[%s]", code)),
			err.Error())
	}
	return fmt.Sprintf("%s %s", pterm.Error.Prefix.Text, pterm.Error.MessageStyle.Sprint(err.Error()))
}

// PlainRenderer renders unstyled text for pipes and logs
type PlainRenderer struct{}

// NewPlainRenderer creates a plain text renderer
func NewPlainRenderer() *PlainRenderer {
	return &PlainRenderer{}
}

func (r *PlainRenderer) RenderPlan(plan *types.UpdatePlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Update plan %s -> %s\n", versionLabel(plan.FromVersion), plan.ToVersion)
	for _, change := range plan.Changes {
		fmt.Fprintf(&b, "  %-8s %s\n", change.Outcome.Action, change.Path)
	}
	for _, w := range plan.Warnings {
		fmt.Fprintf(&b, "  warning  %s: %s\n", w.Path, w.Message)
	}
	counts := plan.CountByAction()
	fmt.Fprintf(&b, "%d replace, %d merge, %d conflict, %d skip",
		counts[types.ActionReplace], counts[types.ActionMerge],
		counts[types.ActionConflict], counts[types.ActionSkip])
	return b.String()
}

func (r *PlainRenderer) RenderUpdateResult(result *types.UpdateResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "status: %s\n", result.Status)
	fmt.Fprintf(&b, "%d updated, %d merged, %d skipped, %d conflicted\n",
		len(result.Updated), len(result.Merged), len(result.Skipped), len(result.Conflicted))
	for _, p := range result.Conflicted {
		fmt.Fprintf(&b, "conflict: %s\n", p)
	}
	for _, p := range result.ResidualPaths {
		fmt.Fprintf(&b, "not written: %s\n", p)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(&b, "warning: %s: %s\n", w.Path, w.Message)
	}
	if result.SnapshotPath != "" {
		fmt.Fprintf(&b, "snapshot: %s\n", result.SnapshotPath)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *PlainRenderer) RenderRollback(result *types.RollbackResult) string {
	return fmt.Sprintf("Restored version %s (%d files) from %s",
		result.RestoredVersion, result.FilesRestored, result.SnapshotPath)
}

func (r *PlainRenderer) RenderTreeStatus(status *types.TreeStatus) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Managed tree at version %s\n", versionLabel(status.Version))
	for _, p := range status.Paths {
		line := fmt.Sprintf("  %-9s %-22s %s", p.State, p.Class, p.Path)
		if p.Detail != "" {
			line += " (" + p.Detail + ")"
		}
		b.WriteString(line + "\n")
	}
	if status.HasDrift() {
		fmt.Fprintf(&b, "%d path(s) drifted", status.DriftCount)
	} else {
		b.WriteString("no drift")
	}
	return b.String()
}

func (r *PlainRenderer) RenderSnapshots(infos []snapshot.Info) string {
	if len(infos) == 0 {
		return "No snapshots"
	}
	var b strings.Builder
	for _, info := range infos {
		fmt.Fprintf(&b, "%s  %s  %d files  %s\n",
			info.Version, info.CreatedAt.Format("2006-01-02 15:04"), info.FileCount, info.Path)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *PlainRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		return fmt.Sprintf("Error [%s]: %s", code, err.Error())
	}
	return fmt.Sprintf("Error: %s", err.Error())
}

// versionLabel substitutes a readable label for the empty pre-install
// version.
func versionLabel(version string) string {
	if version == "" {
		return "(none)"
	}
	return version
}
