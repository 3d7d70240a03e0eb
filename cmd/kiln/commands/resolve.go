package commands

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve and print the project's classpath",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			refresh, _ := cmd.Flags().GetBool("refresh")
			output, _ := cmd.Flags().GetString("output")
			if !slices.Contains([]string{"path", "lines", "json"}, output) {
				return zerr.With(domain.ErrUnknownOutput, "output", output)
			}

			cp, err := c.app.Resolve(cmd.Context(), app.ResolveOptions{
				Dir:     dirFlag(cmd),
				Refresh: refresh,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch output {
			case "json":
				entries := []string(cp)
				if entries == nil {
					entries = []string{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			case "lines":
				for _, entry := range cp {
					_, _ = fmt.Fprintln(out, entry)
				}
			default:
				_, _ = fmt.Fprintln(out, cp.String())
			}
			return nil
		},
	}
	cmd.Flags().BoolP("refresh", "r", false, "Ignore the cached classpath and resolve again")
	cmd.Flags().StringP("output", "o", "path", "Output: path, lines, or json")
	return cmd
}
