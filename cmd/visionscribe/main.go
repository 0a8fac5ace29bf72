package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alingse/visionscribe/internal/app"
	"github.com/alingse/visionscribe/internal/artifact"
	"github.com/alingse/visionscribe/internal/config"
	"github.com/alingse/visionscribe/internal/logging"
)

var (
	cfgPath   string
	verbose   bool
	cfg       *config.Config
	logger    *zap.Logger
	artifacts *artifact.Resolver
)

var rootCmd = &cobra.Command{
	Use:   "visionscribe",
	Short: "Reconstruct a source project from OCR text of a screen recording",
	Long: `visionscribe deduplicates text read off video frames and asks an LLM to
arrange it into files and directories, then validates and writes the result.

Stages:
  cluster  OCR JSON -> analysis JSON (deduplicated text blocks)
  build    analysis JSON -> project tree and documentation
  run      both stages in one go`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		var err error
		cfg, err = app.LoadConfig(cfgPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Level = "debug"
			cfg.Logging.Format = "console"
		}
		logger, err = logging.New(cfg.Logging)
		if err != nil {
			return err
		}
		artifacts = artifact.NewResolver(afero.NewOsFs(), cfg.S3)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config/config.toml", "path to the TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to the console")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
