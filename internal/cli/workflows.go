package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rindeal/repokeeper/pkg/config"
	"github.com/rindeal/repokeeper/pkg/filesystem"
	"github.com/rindeal/repokeeper/pkg/paths"
	"github.com/rindeal/repokeeper/pkg/workflows"
)

func newWorkflowsCmd(dryRun *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workflows",
		Short: MsgWorkflowsShort,
		Long:  MsgWorkflowsLong,
	}
	cmd.AddCommand(newWorkflowsFixCmd(dryRun))
	cmd.AddCommand(newWorkflowsRefreshCmd(dryRun))
	return cmd
}

// loadRepoConfig discovers the repository root and loads the layered
// configuration, applying the global dry-run flag on top.
func loadRepoConfig(dryRun bool) (string, *config.Config, error) {
	root, err := paths.FindGitRoot(".")
	if err != nil {
		return "", nil, err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return "", nil, err
	}
	if dryRun {
		cfg.DryRun.SetAll(true)
	}
	return root, cfg, nil
}

func newWorkflowsFixCmd(dryRun *bool) *cobra.Command {
	return &cobra.Command{
		Use:     "fix",
		Short:   MsgFixShort,
		Long:    MsgFixLong,
		Example: MsgFixExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, cfg, err := loadRepoConfig(*dryRun)
			if err != nil {
				return err
			}

			fixer := workflows.NewFixer(filesystem.NewOS(), cfg, root)
			result, err := fixer.Run()
			if err != nil {
				return err
			}

			repaired, patched := 0, 0
			for _, l := range result.Links {
				if l.Repaired {
					repaired++
				}
				if l.Patched {
					patched++
				}
			}
			fmt.Printf("Processed %d link(s): %d repaired, %d name(s) patched, %d file(s) swept\n",
				len(result.Links), repaired, patched, len(result.Swept))

			if failed := result.Failed(); len(failed) > 0 {
				for _, l := range failed {
					fmt.Printf("  failed: %s: %v\n", l.LinkPath, l.Err)
				}
				return fmt.Errorf("%d of %d link(s) could not be repaired", len(failed), len(result.Links))
			}
			return nil
		},
	}
}

func newWorkflowsRefreshCmd(dryRun *bool) *cobra.Command {
	return &cobra.Command{
		Use:     "refresh",
		Short:   MsgRefreshShort,
		Long:    MsgRefreshLong,
		Example: MsgRefreshExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, cfg, err := loadRepoConfig(*dryRun)
			if err != nil {
				return err
			}

			refresher := workflows.NewRefresher(filesystem.NewOS(), cfg, root)
			result, err := refresher.Run()
			if err != nil {
				return err
			}

			fmt.Printf("Removed %d dead symlink(s), created %d new symlink(s)\n",
				len(result.RemovedDead), len(result.Created))
			return nil
		},
	}
}
