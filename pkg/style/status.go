package style

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/canonhq/canon/pkg/types"
)

// StateStyle returns the pterm style for a drift state
func StateStyle(state types.PathState) *pterm.Style {
	switch state {
	case types.StateClean:
		return pterm.NewStyle(pterm.FgGreen)
	case types.StateModified:
		return pterm.NewStyle(pterm.FgYellow, pterm.Bold)
	case types.StateMissing:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	case types.StateLegacy:
		return pterm.NewStyle(pterm.FgMagenta)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// stateMessages maps each drift state to its display sentence
var stateMessages = map[types.PathState]string{
	types.StateClean:     "matches the recorded version",
	types.StateModified:  "changed since last update",
	types.StateMissing:   "recorded but not on disk",
	types.StateUntracked: "present without a ledger entry",
	types.StateLegacy:    "composite file without section markers",
}

// RenderPathStatus renders one drift report line
func RenderPathStatus(p types.PathStatus) string {
	state := StateStyle(p.State).Sprint(fmt.Sprintf("%-9s", p.State))

	msg := stateMessages[p.State]
	if p.Detail != "" {
		msg = fmt.Sprintf("%s (%s)", msg, p.Detail)
	}

	return fmt.Sprintf("    %s : %-28s : %s", state, p.Path, msg)
}
