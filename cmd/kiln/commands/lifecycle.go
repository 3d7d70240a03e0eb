package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
)

func addJobsFlag(cmd *cobra.Command) {
	cmd.Flags().IntP("jobs", "j", 1, "Compile up to this many independent projects at once")
}

func options(cmd *cobra.Command) app.Options {
	jobs, _ := cmd.Flags().GetInt("jobs")
	return app.Options{Dir: dirFlag(cmd), Jobs: jobs}
}

func (c *CLI) newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile the project and the local projects it depends on",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Compile(cmd.Context(), options(cmd))
		},
	}
	addJobsFlag(cmd)
	return cmd
}

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compile and run the project's main class",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Run(cmd.Context(), options(cmd))
		},
	}
	addJobsFlag(cmd)
	return cmd
}

func (c *CLI) newTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Compile the project and run its tests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Test(cmd.Context(), options(cmd))
		},
	}
	addJobsFlag(cmd)
	return cmd
}

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile and package the project into an archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			archive, err := c.app.Build(cmd.Context(), options(cmd))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), archive)
			return nil
		},
	}
	addJobsFlag(cmd)
	return cmd
}

func (c *CLI) newDevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Run the project with its dev server and recompile on change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Dev(cmd.Context(), options(cmd))
		},
	}
	addJobsFlag(cmd)
	return cmd
}
