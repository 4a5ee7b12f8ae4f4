// Package cli implements the interactive endbasic shell and its startup
// wiring.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ABelliqueux/endbasic/internal/logger"
	"github.com/ABelliqueux/endbasic/pkg/cloud"
	"github.com/ABelliqueux/endbasic/pkg/config"
	"github.com/ABelliqueux/endbasic/pkg/console"
)

var (
	configPath string
	logLevel   string

	rootCmd = &cobra.Command{
		Use:   "endbasic",
		Short: "Interactive shell for the endbasic file store",
		Long: `Starts an interactive shell over a set of mounted drives. Drives are
addressed as DRIVE:/FILE and are backed by pluggable targets such as
in-memory stores, a local database, S3 buckets, or the cloud file service.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (DEBUG, INFO, WARN, ERROR)")
}

// ExecuteContext runs the root command under the given context.
func ExecuteContext(ctx context.Context) error {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	return rootCmd.ExecuteContext(ctx)
}

func run(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	logger.SetLevel(level)

	service, err := cloud.NewClient(&cloud.ClientConfig{
		BaseURL: cfg.Service.BaseURL,
		Timeout: cfg.Service.Timeout,
		Logger:  slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel(level)})),
	})
	if err != nil {
		return err
	}

	st, err := config.BuildStorage(ctx, cfg, service)
	if err != nil {
		return err
	}

	cons := console.NewTerminal()
	commands := cloud.AddAll(service, cons, st, cfg.Service.ExecBaseURL)

	shell := newShell(cons, st, commands)
	return shell.Run(ctx)
}

// slogLevel maps the printf logger's level names onto slog levels so the
// service client logs at the same verbosity as everything else.
func slogLevel(level string) slog.Level {
	switch level {
	case "DEBUG", "debug":
		return slog.LevelDebug
	case "WARN", "warn":
		return slog.LevelWarn
	case "ERROR", "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
