package main

import (
	"github.com/spf13/cobra"

	"github.com/alingse/visionscribe/internal/core"
)

var runCmd = &cobra.Command{
	Use:   "run <ocr.json>",
	Short: "Deduplicate, classify and write the project in one pass",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		applyClusterFlags(cmd)
		applyBuildFlags(cmd)
		if err := cfg.Validate(); err != nil {
			return err
		}

		r, err := core.NewReconstructor(cfg, nil, logger)
		if err != nil {
			return err
		}
		analysis, err := analyze(ctx, r, args[0])
		if err != nil {
			return err
		}
		return assemble(ctx, cmd, analysis)
	},
}

func init() {
	addClusterFlags(runCmd)
	addBuildFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}
