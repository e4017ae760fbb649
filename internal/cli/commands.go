package cli

import (
	"fmt"
	"os"

	"github.com/canonhq/canon/internal/version"
	"github.com/canonhq/canon/pkg/commands/initialize"
	"github.com/canonhq/canon/pkg/commands/rollback"
	"github.com/canonhq/canon/pkg/commands/show"
	"github.com/canonhq/canon/pkg/commands/status"
	"github.com/canonhq/canon/pkg/commands/update"
	"github.com/canonhq/canon/pkg/config"
	"github.com/canonhq/canon/pkg/filesystem"
	"github.com/canonhq/canon/pkg/logging"
	"github.com/canonhq/canon/pkg/paths"
	"github.com/canonhq/canon/pkg/style"
	"github.com/canonhq/canon/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var (
		verbosity int
		dryRun    bool
		force     bool
		format    string
		root      string
	)

	rootCmd := &cobra.Command{
		Use:     "canon",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// If we get here, no subcommand was provided
			// Show help but return an error to indicate incorrect usage
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().BoolVar(&force, "force", false, MsgFlagForce)
	rootCmd.PersistentFlags().StringVar(&format, "format", "", MsgFlagFormat)
	rootCmd.PersistentFlags().StringVar(&root, "root", "", MsgFlagRoot)

	// Add all commands
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newUpdateCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newRollbackCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// initPaths initializes the paths instance and shows a warning if using fallback
func initPaths(cmd *cobra.Command) (paths.Paths, error) {
	root, _ := cmd.Root().PersistentFlags().GetString("root")

	p, err := paths.New(root)
	if err != nil {
		return nil, err
	}

	if p.UsedFallback() {
		fmt.Fprintf(os.Stderr, MsgFallbackWarning+"\n\n", p.ProjectRoot())
	} else {
		// Debug: log how we found the path
		if os.Getenv("CANON_DEBUG") != "" {
			fmt.Fprintf(os.Stderr, MsgDebugProjectRoot, p.ProjectRoot(), p.UsedFallback())
		}
	}

	return p, nil
}

// initProject resolves paths and loads configuration for commands that
// need to classify tree content.
func initProject(cmd *cobra.Command) (paths.Paths, *config.Config, error) {
	p, err := initPaths(cmd)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(p)
	if err != nil {
		return nil, nil, err
	}

	return p, cfg, nil
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "init <bundle-dir>",
		Short:   MsgInitShort,
		Long:    MsgInitLong,
		Example: MsgInitExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cfg, err := initProject(cmd)
			if err != nil {
				return err
			}

			dryRun, _ := cmd.Root().PersistentFlags().GetBool("dry-run")
			force, _ := cmd.Root().PersistentFlags().GetBool("force")

			log.Info().
				Str("project_root", p.ProjectRoot()).
				Str("bundle", args[0]).
				Bool("dry_run", dryRun).
				Msg("Installing release bundle")

			res, err := initialize.Initialize(initialize.Options{
				ProjectRoot: p.ProjectRoot(),
				BundleDir:   args[0],
				FileSystem:  filesystem.NewOS(),
				Config:      cfg,
				DryRun:      dryRun,
				Force:       force,
			})
			// A partial result still carries the plan and whatever was
			// applied before the failure, so render it before erroring.
			if res != nil {
				renderOutcome(cmd, res, res.Plan, res.Update, dryRun)
			}
			return err
		},
	}
}

func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "update <bundle-dir>",
		Short:   MsgUpdateShort,
		Long:    MsgUpdateLong,
		Example: MsgUpdateExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cfg, err := initProject(cmd)
			if err != nil {
				return err
			}

			dryRun, _ := cmd.Root().PersistentFlags().GetBool("dry-run")

			log.Info().
				Str("project_root", p.ProjectRoot()).
				Str("bundle", args[0]).
				Bool("dry_run", dryRun).
				Msg("Updating managed tree")

			res, err := update.Update(update.Options{
				ProjectRoot: p.ProjectRoot(),
				BundleDir:   args[0],
				FileSystem:  filesystem.NewOS(),
				Config:      cfg,
				DryRun:      dryRun,
			})
			if res != nil {
				renderOutcome(cmd, res, res.Plan, res.Update, dryRun)
			}
			return err
		},
	}
}

func newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "plan <bundle-dir>",
		Short:   MsgPlanShort,
		Long:    MsgPlanLong,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cfg, err := initProject(cmd)
			if err != nil {
				return err
			}

			log.Info().
				Str("project_root", p.ProjectRoot()).
				Str("bundle", args[0]).
				Msg("Planning update")

			res, err := update.Update(update.Options{
				ProjectRoot: p.ProjectRoot(),
				BundleDir:   args[0],
				FileSystem:  filesystem.NewOS(),
				Config:      cfg,
				DryRun:      true,
			})
			if res != nil {
				renderOutcome(cmd, res, res.Plan, nil, true)
			}
			return err
		},
	}
}

func newRollbackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rollback",
		Short:   MsgRollbackShort,
		Long:    MsgRollbackLong,
		Example: MsgRollbackExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Recovery path: configuration problems must not block it,
			// so the config file is never loaded here.
			p, err := initPaths(cmd)
			if err != nil {
				return err
			}

			list, _ := cmd.Flags().GetBool("list")

			log.Info().
				Str("project_root", p.ProjectRoot()).
				Bool("list", list).
				Msg("Rolling back managed tree")

			res, err := rollback.Rollback(rollback.Options{
				ProjectRoot: p.ProjectRoot(),
				FileSystem:  filesystem.NewOS(),
				List:        list,
			})
			if err != nil {
				return err
			}

			format := outputFormat(cmd)
			if format == ui.FormatJSON {
				return emitJSON(res)
			}

			renderer := style.NewRenderer(format)
			if list {
				fmt.Println(renderer.RenderSnapshots(res.Snapshots))
			} else {
				fmt.Println(renderer.RenderRollback(res.Rollback))
			}
			return nil
		},
	}

	cmd.Flags().Bool("list", false, MsgFlagList)

	return cmd
}

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		Long:    MsgStatusLong,
		Example: MsgStatusExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cfg, err := initProject(cmd)
			if err != nil {
				return err
			}

			bundleDir, _ := cmd.Flags().GetString("bundle")

			log.Info().Str("project_root", p.ProjectRoot()).Msg("Checking tree status")

			st, err := status.Status(status.Options{
				ProjectRoot: p.ProjectRoot(),
				BundleDir:   bundleDir,
				FileSystem:  filesystem.NewOS(),
				Config:      cfg,
			})
			if err != nil {
				return err
			}

			format := outputFormat(cmd)
			if format == ui.FormatJSON {
				if err := emitJSON(st); err != nil {
					return err
				}
			} else {
				fmt.Println(style.NewRenderer(format).RenderTreeStatus(st))
			}

			if st.HasDrift() {
				return errDrift
			}
			return nil
		},
	}

	cmd.Flags().String("bundle", "", MsgFlagBundle)

	return cmd
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "show <path>",
		Short:   MsgShowShort,
		Long:    MsgShowLong,
		Example: MsgShowExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := initPaths(cmd)
			if err != nil {
				return err
			}

			plain, _ := cmd.Flags().GetBool("plain")
			width, _ := cmd.Flags().GetInt("width")

			format := outputFormat(cmd)
			if format != ui.FormatTerminal {
				// Piped or plain-text output gets the raw document.
				plain = true
			}

			res, err := show.Show(show.Options{
				ProjectRoot: p.ProjectRoot(),
				FileSystem:  filesystem.NewOS(),
				Path:        args[0],
				Plain:       plain,
				Width:       width,
			})
			if err != nil {
				return err
			}

			if format == ui.FormatJSON {
				return emitJSON(res)
			}
			fmt.Print(res.Rendered)
			return nil
		},
	}

	cmd.Flags().Bool("plain", false, MsgFlagPlain)
	cmd.Flags().Int("width", 0, MsgFlagWidth)

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Long:  MsgVersionLong,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf(MsgVersionFormat, version.Version)
			fmt.Printf(MsgCommitFormat, version.Commit)
			fmt.Printf(MsgBuiltFormat, version.Date)
		},
	}
}
