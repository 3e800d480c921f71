// Package cmd assembles the shipnotes command tree.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shipnotes/shipnotes/internal/app"
	"github.com/shipnotes/shipnotes/internal/cli"
	"github.com/shipnotes/shipnotes/internal/cli/category"
	"github.com/shipnotes/shipnotes/internal/cli/column"
	"github.com/shipnotes/shipnotes/internal/cli/event"
	"github.com/shipnotes/shipnotes/internal/cli/serve"
	"github.com/shipnotes/shipnotes/internal/cli/status"
	"github.com/shipnotes/shipnotes/internal/cli/styles"
	"github.com/shipnotes/shipnotes/internal/config"
	"github.com/shipnotes/shipnotes/internal/logging"
)

// NewRootCmd builds the root command with every subcommand attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "shipnotes",
		Short: "Shipnotes - changelog and roadmap workflow",
		Long: `Shipnotes manages the ordered statuses (Kanban columns) that changelog and
roadmap events move through, and maps them to the categories of a theme.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c, err := cli.FromContext(cmd.Context()); err == nil {
				return c.Close()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Config file (default $SHIPNOTES_CONFIG or the user config dir)")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return cli.NewFormatter(cmd).Usage(err)
	})

	rootCmd.AddCommand(status.StatusCmd())
	rootCmd.AddCommand(event.EventCmd())
	rootCmd.AddCommand(column.ListCmd())
	rootCmd.AddCommand(category.CategoryCmd())
	rootCmd.AddCommand(serve.ServeCmd())

	return rootCmd
}

// setup loads configuration, logging and styles, then stores the CLI in the
// command context. A context that already carries a CLI (tests) is kept.
func setup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if _, err := cli.FromContext(ctx); err == nil {
		return nil
	}
	formatter := cli.NewFormatter(cmd)

	cfg, err := loadConfig(cmd)
	if err != nil {
		_ = formatter.Error("CONFIG_ERROR", err.Error())
		return &cli.ExitError{Code: cli.ExitDataErr, Err: err}
	}

	logger, closeLog, err := logging.Init(cfg.Log)
	if err != nil {
		_ = formatter.Error("CONFIG_ERROR", err.Error())
		return &cli.ExitError{Code: cli.ExitDataErr, Err: err}
	}
	styles.Init(cfg.Output.Colors)

	var a *app.App
	if cmd.Annotations[serve.AppAnnotation] == "" {
		a, err = app.New(ctx, cfg, app.WithLogger(logger))
		if err != nil {
			_ = closeLog()
			return formatter.Fail(err)
		}
	}

	cmd.SetContext(cli.WithCLI(ctx, cli.New(a, cfg, closeLog)))
	return nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// Execute runs the root command until it finishes or the process is signalled
func Execute() error {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancel()

	return NewRootCmd().ExecuteContext(ctx)
}
