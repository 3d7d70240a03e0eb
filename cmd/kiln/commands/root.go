// Package commands implements the CLI commands for the kiln build tool.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/adapters/detector" //nolint:depguard // Wired in CLI layer
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/build"
	"go.trai.ch/kiln/internal/core/domain"
)

// CLI represents the command line interface for kiln.
type CLI struct {
	app       Application
	rootCmd   *cobra.Command
	setFormat func(detector.LogFormat)
}

// Application represents the application logic interface.
type Application interface {
	Resolve(ctx context.Context, opts app.ResolveOptions) (domain.Classpath, error)
	Compile(ctx context.Context, opts app.Options) error
	Run(ctx context.Context, opts app.Options) error
	Test(ctx context.Context, opts app.Options) error
	Build(ctx context.Context, opts app.Options) (string, error)
	Dev(ctx context.Context, opts app.Options) error
	Clean(ctx context.Context, opts app.CleanOptions) error
	Graph(ctx context.Context, opts app.GraphOptions, w io.Writer) error
}

// Option configures the CLI.
type Option func(*CLI)

// WithLogFormat registers the callback that applies the resolved log format.
func WithLogFormat(set func(detector.LogFormat)) Option {
	return func(c *CLI) {
		c.setFormat = set
	}
}

// New creates a new CLI instance with the given app.
func New(a Application, opts ...Option) *CLI {
	rootCmd := &cobra.Command{
		Use:           "kiln",
		Short:         "A build tool for JVM projects developed side by side",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("dir", "C", "", "Start project discovery in this directory")
	rootCmd.PersistentFlags().String("log-format", "auto", "Log format: auto, pretty, or json")
	rootCmd.PersistentFlags().Bool("json", false, "Write logs as JSON (shorthand for --log-format=json)")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}
	for _, opt := range opts {
		opt(c)
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if c.setFormat == nil {
			return
		}
		format, _ := cmd.Flags().GetString("log-format")
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			format = "json"
		}
		c.setFormat(detector.ResolveFormat(detector.DetectFormat(), format))
	}

	rootCmd.AddCommand(c.newResolveCmd())
	rootCmd.AddCommand(c.newCompileCmd())
	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newTestCmd())
	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newDevCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newGraphCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func dirFlag(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("dir")
	return dir
}
