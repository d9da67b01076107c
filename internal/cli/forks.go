package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rindeal/repokeeper/pkg/config"
	"github.com/rindeal/repokeeper/pkg/errors"
	"github.com/rindeal/repokeeper/pkg/forks"
	"github.com/rindeal/repokeeper/pkg/ghactions"
	"github.com/rindeal/repokeeper/pkg/paths"
)

func newForksCmd(dryRun *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forks",
		Short: MsgForksShort,
		Long:  MsgForksLong,
	}
	cmd.AddCommand(newForksEnforceCmd(dryRun))
	return cmd
}

func newForksEnforceCmd(dryRun *bool) *cobra.Command {
	return &cobra.Command{
		Use:     "enforce",
		Short:   MsgEnforceShort,
		Long:    MsgEnforceLong,
		Example: MsgEnforceExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token := os.Getenv("GH_TOKEN")
			if token == "" {
				return errors.New(errors.ErrGitHubAuth, "GH_TOKEN is not set")
			}
			os.Unsetenv("GH_TOKEN")
			if ghactions.IsRunning() {
				ghactions.AddMask(token)
			}

			// The fork policy does not need a repository checkout; fall
			// back to built-in defaults when run outside one.
			cfg := config.Default()
			if root, err := paths.FindGitRoot("."); err == nil {
				if loaded, err := config.Load(root); err == nil {
					cfg = loaded
				}
			}

			ctx := cmd.Context()
			client := forks.NewClient(ctx, token)
			enforcer := forks.NewEnforcer(client, cfg.Forks, *dryRun)

			results, err := enforcer.Run(ctx)
			if err != nil {
				if ghactions.IsRunning() {
					ghactions.Error(err.Error())
				}
				return err
			}

			failed := 0
			for _, r := range results {
				switch {
				case r.Err != nil:
					failed++
					if ghactions.IsRunning() {
						ghactions.Error(fmt.Sprintf("%s: %v", r.Name, r.Err))
					}
				case r.Renamed || r.Retagged:
					if ghactions.IsRunning() {
						ghactions.Warning(fmt.Sprintf("brought %s into policy", r.Name))
					}
				}
			}

			fmt.Printf("Processed %d fork(s), %d failed\n", len(results), failed)
			if failed > 0 {
				return fmt.Errorf("%d of %d fork(s) could not be processed", failed, len(results))
			}
			return nil
		},
	}
}
