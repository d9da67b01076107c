package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rindeal/repokeeper/pkg/render"
)

func newRenderCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "render",
		Short:   MsgRenderShort,
		Long:    MsgRenderLong,
		Example: MsgRenderExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return render.Render(os.Stdin, os.Stdout)
		},
	}
}
