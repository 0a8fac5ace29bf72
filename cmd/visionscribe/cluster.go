package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/alingse/visionscribe/internal/core"
	"github.com/alingse/visionscribe/internal/core/model"
	"github.com/alingse/visionscribe/internal/core/store"
)

var clusterCmd = &cobra.Command{
	Use:   "cluster <ocr.json>",
	Short: "Deduplicate OCR text into canonical blocks",
	Long: `Read an OCR payload (local path or s3://bucket/key), cluster near-duplicate
text across frames and write the analysis JSON consumed by "build".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out, _ := cmd.Flags().GetString("output")
		applyClusterFlags(cmd)
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

		data, err := json.MarshalIndent(analysis, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode analysis: %w", err)
		}
		if err := artifacts.Write(ctx, out, data, "application/json"); err != nil {
			return err
		}

		green := color.New(color.FgGreen, color.Bold).SprintFunc()
		fmt.Printf("%s %d observations -> %d text blocks (%s @ %.2f)\n",
			green("✓"), analysis.Observations, len(analysis.Blocks), analysis.Metric, analysis.Threshold)
		fmt.Printf("  analysis written to %s\n", out)
		return nil
	},
}

func init() {
	clusterCmd.Flags().StringP("output", "o", "analysis.json", "where to write the analysis JSON")
	addClusterFlags(clusterCmd)
	rootCmd.AddCommand(clusterCmd)
}

func addClusterFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("threshold", 0, "similarity threshold in (0, 1] (default from config)")
	cmd.Flags().String("metric", "", "similarity metric: levenshtein, jaccard or cosine")
	cmd.Flags().Float64("min-confidence", -1, "drop OCR blocks below this confidence (default from config)")
}

func applyClusterFlags(cmd *cobra.Command) {
	if v, _ := cmd.Flags().GetFloat64("threshold"); cmd.Flags().Changed("threshold") {
		cfg.Clustering.Threshold = v
	}
	if v, _ := cmd.Flags().GetString("metric"); v != "" {
		cfg.Clustering.Metric = v
	}
	if v, _ := cmd.Flags().GetFloat64("min-confidence"); cmd.Flags().Changed("min-confidence") {
		cfg.OCR.MinConfidence = v
	}
}

func analyze(ctx context.Context, r *core.Reconstructor, input string) (*model.Analysis, error) {
	data, err := artifacts.Read(ctx, input)
	if err != nil {
		return nil, err
	}
	st := store.NewObservationStore()
	if _, err := st.LoadOCR(bytes.NewReader(data), cfg.OCR.MinConfidence); err != nil {
		return nil, err
	}
	if st.Len() == 0 {
		return nil, fmt.Errorf("no text blocks at or above confidence %.2f in %s", cfg.OCR.MinConfidence, input)
	}
	return r.Analyze(st.Snapshot())
}
