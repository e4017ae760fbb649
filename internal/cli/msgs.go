package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort     = "Distribute and update governance content in project repositories"
	MsgInitShort     = "Install a release bundle into this project"
	MsgUpdateShort   = "Update the managed tree to a new release"
	MsgPlanShort     = "Preview what an update would do"
	MsgRollbackShort = "Restore the tree from the last pre-update snapshot"
	MsgStatusShort   = "Report drift between the tree and the ledger"
	MsgShowShort     = "Render an installed document"
	MsgVersionShort  = "Print version information"
	MsgVersionLong   = "Print the canon version, commit hash and build date."

	// Version output
	MsgVersionFormat = "canon version %s\n"
	MsgCommitFormat  = "Commit: %s\n"
	MsgBuiltFormat   = "Built:  %s\n"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun  = "Preview changes without writing anything"
	MsgFlagForce   = "Allow reinstalling over an already-initialized tree"
	MsgFlagFormat  = "Output format: auto, term, text or json"
	MsgFlagRoot    = "Project root holding the managed tree (default: auto-detect)"
	MsgFlagList    = "List available snapshots instead of restoring"
	MsgFlagBundle  = "Release bundle to check composite documents against"
	MsgFlagPlain   = "Print the document without markdown rendering"
	MsgFlagWidth   = "Wrap rendered markdown at this column (0 = auto)"

	// Debug messages
	MsgDebugProjectRoot = "Debug: Using project root: %s (fallback=%v)\n"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/init-long.txt
	msgInitLongRaw string
	MsgInitLong    = strings.TrimSpace(msgInitLongRaw)

	//go:embed msgs/init-example.txt
	msgInitExampleRaw string
	MsgInitExample    = strings.TrimSpace(msgInitExampleRaw)

	//go:embed msgs/update-long.txt
	msgUpdateLongRaw string
	MsgUpdateLong    = strings.TrimSpace(msgUpdateLongRaw)

	//go:embed msgs/update-example.txt
	msgUpdateExampleRaw string
	MsgUpdateExample    = strings.TrimSpace(msgUpdateExampleRaw)

	//go:embed msgs/plan-long.txt
	msgPlanLongRaw string
	MsgPlanLong    = strings.TrimSpace(msgPlanLongRaw)

	//go:embed msgs/rollback-long.txt
	msgRollbackLongRaw string
	MsgRollbackLong    = strings.TrimSpace(msgRollbackLongRaw)

	//go:embed msgs/rollback-example.txt
	msgRollbackExampleRaw string
	MsgRollbackExample    = strings.TrimSpace(msgRollbackExampleRaw)

	//go:embed msgs/status-long.txt
	msgStatusLongRaw string
	MsgStatusLong    = strings.TrimSpace(msgStatusLongRaw)

	//go:embed msgs/status-example.txt
	msgStatusExampleRaw string
	MsgStatusExample    = strings.TrimSpace(msgStatusExampleRaw)

	//go:embed msgs/show-long.txt
	msgShowLongRaw string
	MsgShowLong    = strings.TrimSpace(msgShowLongRaw)

	//go:embed msgs/show-example.txt
	msgShowExampleRaw string
	MsgShowExample    = strings.TrimSpace(msgShowExampleRaw)

	//go:embed msgs/fallback-warning.txt
	msgFallbackWarningRaw string
	MsgFallbackWarning    = strings.TrimSpace(msgFallbackWarningRaw)
)
