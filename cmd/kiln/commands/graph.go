package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
)

func (c *CLI) newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the local project graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, _ := cmd.Flags().GetString("format")
			return c.app.Graph(cmd.Context(), app.GraphOptions{
				Dir:    dirFlag(cmd),
				Format: format,
			}, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringP("format", "f", "order", "Output format: order, dot, or svg")
	return cmd
}
