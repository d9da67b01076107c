package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rindeal/repokeeper/internal/version"
	"github.com/rindeal/repokeeper/pkg/logging"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var (
		verbosity int
		dryRun    bool
	)

	rootCmd := &cobra.Command{
		Use:     "repokeeper",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Log intended actions without executing them")

	rootCmd.AddCommand(newWorkflowsCmd(&dryRun))
	rootCmd.AddCommand(newForksCmd(&dryRun))
	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("repokeeper version %s\n", version.Version)
			fmt.Printf("  commit: %s\n", version.Commit)
			fmt.Printf("  built:  %s\n", version.Date)
		},
	}
}
