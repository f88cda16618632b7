package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AlphaC137/sneakerverse-bazaar/internal/config"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/kv"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/logging"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "storefront",
		Short: "SneakVerse storefront API",
		// bare invocation serves
		RunE:          func(cmd *cobra.Command, args []string) error { return runServe(cmd.Context()) },
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(serveCmd(), accountsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// env is what every command needs before doing anything.
type env struct {
	cfg    config.Config
	logger *zap.Logger
	store  kv.Store
}

func bootstrap(ctx context.Context) (*env, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	store, err := kv.Open(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("open %s storage: %w", cfg.StorageDriver, err)
	}
	logger.Info("storage ready", zap.String("driver", cfg.StorageDriver))

	return &env{cfg: cfg, logger: logger, store: store}, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.logger.Warn("failed to close storage", zap.Error(err))
	}
	_ = e.logger.Sync()
}
