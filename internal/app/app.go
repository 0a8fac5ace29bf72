package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/alingse/visionscribe/internal/cache"
	"github.com/alingse/visionscribe/internal/config"
	"github.com/alingse/visionscribe/internal/core"
	"github.com/alingse/visionscribe/internal/driver"
	"github.com/alingse/visionscribe/internal/llm"
	"github.com/alingse/visionscribe/internal/logging"
)

// LoadConfig reads path (missing files fall back to defaults), applies
// environment overrides and validates the result.
func LoadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// NewReconstructor wires the LLM provider and the optional Redis cache and
// Memgraph provenance store. The returned cleanup releases them.
func NewReconstructor(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*core.Reconstructor, func(), error) {
	logger = logging.OrNop(logger)
	client, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}

	r, err := core.NewReconstructor(cfg, client, logger)
	if err != nil {
		return nil, nil, err
	}

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	if c, ok := client.(interface{ Close() error }); ok {
		closers = append(closers, func() { _ = c.Close() })
	}

	if cfg.Redis.Addr != "" {
		rc := cache.NewRedisCache(cfg.Redis)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rc.Ping(pingCtx)
		cancel()
		if err != nil {
			logger.Warn("response cache disabled", zap.Error(err))
			_ = rc.Close()
		} else {
			r.Classifier.Cache = rc
			closers = append(closers, func() { _ = rc.Close() })
			logger.Info("response cache enabled", zap.String("addr", cfg.Redis.Addr))
		}
	}

	if cfg.Memgraph.URI != "" {
		d, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph, logger.Named("memgraph"))
		if err != nil {
			logger.Warn("provenance recording disabled", zap.Error(err))
		} else {
			p := core.NewProvenanceRecorder(d)
			if err := p.BuildIndices(ctx); err != nil {
				logger.Warn("failed to build provenance indices", zap.Error(err))
			}
			r.Provenance = p
			closers = append(closers, func() { _ = d.Close(context.Background()) })
		}
	}

	return r, cleanup, nil
}
