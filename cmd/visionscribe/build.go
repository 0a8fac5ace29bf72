package main

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/alingse/visionscribe/internal/app"
	"github.com/alingse/visionscribe/internal/core/model"
	"github.com/alingse/visionscribe/internal/output"
)

var buildCmd = &cobra.Command{
	Use:   "build <analysis.json>",
	Short: "Classify deduplicated blocks and write the project tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		applyBuildFlags(cmd)

		data, err := artifacts.Read(ctx, args[0])
		if err != nil {
			return err
		}
		var analysis model.Analysis
		if err := json.Unmarshal(data, &analysis); err != nil {
			return fmt.Errorf("failed to decode analysis %s: %w", args[0], err)
		}
		return assemble(ctx, cmd, &analysis)
	},
}

func init() {
	addBuildFlags(buildCmd)
	rootCmd.AddCommand(buildCmd)
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "output", "directory for the project tree and docs")
	cmd.Flags().String("title", "Reconstructed Project", "title of the generated documentation")
	cmd.Flags().String("upload", "", "also store the result JSON at this location (e.g. s3://bucket/key.json)")
	cmd.Flags().String("provider", "", "LLM provider: openai, claude, gemini or ollama")
	cmd.Flags().String("model", "", "LLM model name")
}

func applyBuildFlags(cmd *cobra.Command) {
	if v, _ := cmd.Flags().GetString("provider"); v != "" {
		cfg.LLM.Provider = v
	}
	if v, _ := cmd.Flags().GetString("model"); v != "" {
		cfg.LLM.Model = v
	}
}

func assemble(ctx context.Context, cmd *cobra.Command, analysis *model.Analysis) error {
	outDir, _ := cmd.Flags().GetString("output")
	title, _ := cmd.Flags().GetString("title")
	upload, _ := cmd.Flags().GetString("upload")

	if err := cfg.Validate(); err != nil {
		return err
	}
	r, cleanup, err := app.NewReconstructor(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := r.Assemble(ctx, analysis)
	if err != nil {
		red := color.New(color.FgRed, color.Bold).SprintFunc()
		fmt.Printf("%s classification failed, no project was written\n", red("✗"))
		return err
	}

	w := output.NewWriter(afero.NewOsFs(), logger)
	w.Title = title
	if err := w.WriteResult(outDir, res); err != nil {
		return err
	}
	if upload != "" {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		if err := artifacts.Write(ctx, upload, data, "application/json"); err != nil {
			return err
		}
	}

	printSummary(res, outDir)
	return nil
}

func printSummary(res *model.ReconstructionResult, outDir string) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	if res.Success {
		fmt.Printf("%s reconstructed %d files\n", green("✓"), res.Stats.Files)
	} else {
		fmt.Printf("%s reconstruction incomplete: %d files\n", yellow("⚠"), res.Stats.Files)
	}
	fmt.Printf("  run:       %s\n", gray(res.RunID))
	fmt.Printf("  blocks:    %d from %d observations\n", res.Stats.Blocks, res.Stats.Observations)
	fmt.Printf("  conflicts: %d\n", len(res.Conflicts))
	for _, c := range res.Conflicts {
		target := c.Path
		if target == "" {
			target = "block " + c.BlockID
		}
		fmt.Printf("    %s %s (%s)\n", yellow(string(c.Kind)), target, c.Resolution)
	}
	for _, w := range res.Warnings {
		fmt.Printf("  %s %s\n", yellow("warning:"), w)
	}
	if res.Tree != nil {
		fmt.Println()
		fmt.Println(output.RenderTree(res.Tree))
		fmt.Printf("\n  written to %s\n", filepath.Join(outDir, output.ProjectDir))
	}
}
