package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alingse/visionscribe/internal/config"
	"github.com/alingse/visionscribe/internal/core/builder"
	"github.com/alingse/visionscribe/internal/core/classifier"
	"github.com/alingse/visionscribe/internal/core/cluster"
	"github.com/alingse/visionscribe/internal/core/dedupe"
	"github.com/alingse/visionscribe/internal/core/model"
	"github.com/alingse/visionscribe/internal/core/similarity"
	"github.com/alingse/visionscribe/internal/llm"
	"github.com/alingse/visionscribe/internal/logging"
	"github.com/alingse/visionscribe/internal/metrics"
)

// Reconstructor runs observations through clustering, merging,
// classification and tree assembly.
type Reconstructor struct {
	Clusterer  *cluster.Clusterer
	Merger     *dedupe.Merger
	Classifier *classifier.Classifier
	Builder    *builder.Builder

	// Provenance is optional. Failures to record are logged, never fatal.
	Provenance *ProvenanceRecorder

	MetricName string
	NewRunID   func() string
	Logger     *zap.Logger
}

// NewReconstructor builds every stage from cfg. client may be nil when only
// Analyze is used.
func NewReconstructor(cfg *config.Config, client llm.LLMClient, logger *zap.Logger) (*Reconstructor, error) {
	logger = logging.OrNop(logger)
	metric, err := similarity.Lookup(cfg.Clustering.Metric)
	if err != nil {
		return nil, err
	}
	clusterer, err := cluster.NewClusterer(cfg.Clustering.Threshold, metric)
	if err != nil {
		return nil, err
	}

	cls := classifier.NewClassifier(client, cfg.Classifier, cfg.LLM)
	cls.Logger = logger.Named("classifier")
	b := builder.NewBuilder(cfg.Builder)
	b.Logger = logger.Named("builder")

	metricName := cfg.Clustering.Metric
	if metricName == "" {
		metricName = "levenshtein"
	}
	return &Reconstructor{
		Clusterer:  clusterer,
		Merger:     dedupe.NewMerger(),
		Classifier: cls,
		Builder:    b,
		MetricName: metricName,
		NewRunID:   uuid.NewString,
		Logger:     logger,
	}, nil
}

// Analyze clusters and merges observations. It performs no I/O.
func (r *Reconstructor) Analyze(observations []model.TextObservation) (*model.Analysis, error) {
	clusters, err := r.Clusterer.Cluster(observations)
	if err != nil {
		return nil, fmt.Errorf("clustering failed: %w", err)
	}
	blocks, err := r.Merger.MergeAll(clusters)
	if err != nil {
		return nil, fmt.Errorf("merging failed: %w", err)
	}

	metrics.ObservationsClustered.Add(float64(len(observations)))
	metrics.ClustersFormed.Add(float64(len(clusters)))
	logging.OrNop(r.Logger).Info("observations deduplicated",
		zap.Int("observations", len(observations)),
		zap.Int("clusters", len(clusters)))

	return &model.Analysis{
		Metric:       r.MetricName,
		Threshold:    r.Clusterer.Threshold,
		Observations: len(observations),
		Clusters:     clusters,
		Blocks:       blocks,
	}, nil
}

// Assemble classifies the analysed blocks and builds the tree. A classifier
// failure halts the run and no result is returned.
func (r *Reconstructor) Assemble(ctx context.Context, analysis *model.Analysis) (*model.ReconstructionResult, error) {
	logger := logging.OrNop(r.Logger)
	start := time.Now()

	proposed, err := r.Classifier.Classify(ctx, analysis.Blocks)
	if err != nil {
		metrics.RecordReconstruction("failed", time.Since(start))
		logger.Error("classification failed", zap.Error(err))
		return nil, err
	}

	res := r.Builder.Build(proposed, analysis.Blocks)
	res.Stats.Observations = analysis.Observations
	res.Stats.Clusters = len(analysis.Clusters)
	if r.NewRunID != nil {
		res.RunID = r.NewRunID()
	} else {
		res.RunID = uuid.NewString()
	}

	status := "success"
	if !res.Success {
		status = "incomplete"
	}
	metrics.RecordReconstruction(status, time.Since(start))

	if r.Provenance != nil {
		if err := r.Provenance.Record(ctx, analysis.Blocks, res); err != nil {
			logger.Warn("failed to record provenance", zap.String("run_id", res.RunID), zap.Error(err))
		}
	}

	logger.Info("reconstruction finished",
		zap.String("run_id", res.RunID),
		zap.Bool("success", res.Success),
		zap.Int("files", res.Stats.Files),
		zap.Int("conflicts", len(res.Conflicts)),
		zap.Duration("elapsed", time.Since(start)))
	return res, nil
}

func (r *Reconstructor) Reconstruct(ctx context.Context, observations []model.TextObservation) (*model.ReconstructionResult, error) {
	analysis, err := r.Analyze(observations)
	if err != nil {
		return nil, err
	}
	return r.Assemble(ctx, analysis)
}
