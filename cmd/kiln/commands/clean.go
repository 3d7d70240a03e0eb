package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove build outputs and the cached classpath",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, _ := cmd.Flags().GetBool("all")
			store, _ := cmd.Flags().GetBool("store")

			return c.app.Clean(cmd.Context(), app.CleanOptions{
				Dir:   dirFlag(cmd),
				All:   all,
				Store: store,
			})
		},
	}

	cmd.Flags().BoolP("all", "a", false, "Also clean the local projects this one depends on")
	cmd.Flags().Bool("store", false, "Also remove the global artifact store")

	return cmd
}
