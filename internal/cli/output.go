package cli

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/canonhq/canon/pkg/style"
	"github.com/canonhq/canon/pkg/types"
	"github.com/canonhq/canon/pkg/ui"
	"github.com/spf13/cobra"
)

// errDrift marks a status run that completed and found drift. Execute
// exits nonzero for it without printing an error.
var errDrift = stderrors.New("drift present")

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		if stderrors.Is(err, errDrift) {
			return 1
		}
		renderer := style.NewRenderer(ui.DetectFormat(os.Stderr))
		fmt.Fprintln(os.Stderr, renderer.RenderError(err))
		return 1
	}
	return 0
}

// outputFormat resolves the --format flag against the actual output
// destination, never returning FormatAuto. An unknown format name
// falls back to auto-detection rather than failing the command.
func outputFormat(cmd *cobra.Command) ui.Format {
	name, _ := cmd.Root().PersistentFlags().GetString("format")
	f, err := ui.ParseFormat(name)
	if err != nil {
		f = ui.FormatAuto
	}
	return ui.Resolve(f, os.Stdout)
}

func emitJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// renderOutcome prints an install or update outcome. JSON mode
// serializes the full result value v; other modes render the plan for
// dry runs and the applied result for real ones.
func renderOutcome(cmd *cobra.Command, v interface{}, plan *types.UpdatePlan, result *types.UpdateResult, dryRun bool) {
	format := outputFormat(cmd)
	if format == ui.FormatJSON {
		_ = emitJSON(v)
		return
	}

	renderer := style.NewRenderer(format)
	if dryRun {
		if plan != nil {
			fmt.Println(renderer.RenderPlan(plan))
		}
		return
	}
	if result != nil {
		fmt.Println(renderer.RenderUpdateResult(result))
	}
}
