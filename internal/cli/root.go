package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	dbadapter "taskflow/internal/adapter/db"
	"taskflow/internal/adapter/llm"
	"taskflow/internal/app/parsing"
	"taskflow/internal/config"
	"taskflow/internal/core/ports"
)

var (
	verbose      bool
	rootCmd      *cobra.Command
	registerOnce sync.Once
)

// Hooks for tests.
var (
	loadConfig = config.LoadConfig
	newParser  = defaultParser
	openDB     = dbadapter.ConnectDB
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "taskflow",
		Short: "TaskFlow operator tools",
		Long: `taskflow manages the task database and runs the natural language
parser from the command line, using the same configuration as the API server.`,
		PersistentPreRunE: setupLogger,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command
func Execute(version string) error {
	registerCommands()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.Version = version
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func registerCommands() {
	registerOnce.Do(func() {
		rootCmd.AddCommand(migrateCmd)
		rootCmd.AddCommand(parseCmd)
		rootCmd.AddCommand(transcriptCmd)
		rootCmd.AddCommand(draftCmd)
	})
}

func setupLogger(*cobra.Command, []string) error {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	return nil
}

func defaultParser(ctx context.Context, cfg *config.Config) (ports.TaskParser, error) {
	setup, err := llm.NewFromConfig(ctx, cfg.LLM, nil)
	if err != nil {
		return nil, err
	}
	if !setup.Available {
		return nil, fmt.Errorf("llm provider %s is not configured", setup.Provider)
	}
	return parsing.NewParser(setup.Generator, nil), nil
}

func withDB(cfg *config.Config, run func(db *sqlx.DB) error) error {
	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("connect to %s database: %w", cfg.DbDriver, err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			zap.L().Warn("failed to close database connection", zap.Error(err))
		}
	}()
	return run(db)
}
