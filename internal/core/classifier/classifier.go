package classifier

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/alingse/visionscribe/internal/config"
	"github.com/alingse/visionscribe/internal/core/model"
	"github.com/alingse/visionscribe/internal/llm"
	"github.com/alingse/visionscribe/internal/logging"
	"github.com/alingse/visionscribe/internal/metrics"
)

// Classifier asks an LLM to arrange canonical text blocks into a project
// structure. Every call is bounded by a per-attempt timeout and a retry
// budget, and nothing reaches the caller until it has been validated.
type Classifier struct {
	LLM      llm.LLMClient
	Config   config.ClassifierConfig
	Model    string
	Provider string
	Request  llm.Request

	Cache   ResponseCache
	Limiter *rate.Limiter
	Logger  *zap.Logger
}

func NewClassifier(client llm.LLMClient, cfg config.ClassifierConfig, llmCfg config.LLMConfig) *Classifier {
	c := &Classifier{
		LLM:      client,
		Config:   cfg,
		Model:    llmCfg.Model,
		Provider: llmCfg.Provider,
		Request: llm.Request{
			System:      cfg.SystemPrompt,
			Temperature: llmCfg.Temperature,
			MaxTokens:   llmCfg.MaxTokens,
			JSON:        true,
		},
		Logger: zap.NewNop(),
	}
	if cfg.RequestsPerSecond > 0 {
		c.Limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c
}

// Classify proposes a structure for blocks. Batches may run concurrently
// but their entries are concatenated in batch order. Any failed batch
// fails the whole call.
func (c *Classifier) Classify(ctx context.Context, blocks []model.CanonicalTextBlock) (*model.ProposedStructure, error) {
	logger := logging.OrNop(c.Logger)
	batches := Batch(blocks, c.Config.TokenBudget)
	results := make([]*model.ProposedStructure, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, c.Config.MaxConcurrentBatches))
	for i, batch := range batches {
		i, batch := i, batch
		g.Go(func() error {
			prompt, err := renderPrompt(batch, i, len(batches))
			if err != nil {
				return err
			}
			proposed, err := c.classifyBatch(gctx, prompt)
			if err != nil {
				return err
			}
			results[i] = proposed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("classification cancelled: %w", ctxErr)
		}
		return nil, err
	}

	combined := &model.ProposedStructure{FileTypes: make(map[string]string)}
	for _, r := range results {
		combined.Entries = append(combined.Entries, r.Entries...)
		for p, t := range r.FileTypes {
			combined.FileTypes[p] = t
		}
	}
	logger.Info("classification complete",
		zap.Int("blocks", len(blocks)),
		zap.Int("batches", len(batches)),
		zap.Int("entries", len(combined.Entries)))
	return combined, nil
}

func (c *Classifier) classifyBatch(ctx context.Context, prompt string) (*model.ProposedStructure, error) {
	logger := logging.OrNop(c.Logger)
	req := c.Request
	req.Prompt = prompt
	key := cacheKey(c.Model, req.System, prompt)

	if c.Cache != nil {
		raw, ok, err := c.Cache.Get(ctx, key)
		if err != nil {
			logger.Warn("classifier cache read failed", zap.Error(err))
		} else if ok {
			if proposed, err := ParseResponse(raw); err == nil {
				metrics.ClassifierCacheHits.Inc()
				return proposed, nil
			}
		}
	}

	raw, err := c.generateWithRetry(ctx, req)
	if err != nil {
		return nil, err
	}

	proposed, err := ParseResponse(raw)
	if err != nil {
		metrics.RecordClassifierAttempt(c.Provider, "invalid", 0)
		return nil, err
	}

	if c.Cache != nil {
		if err := c.Cache.Set(ctx, key, raw, c.Config.CacheTTL.Duration); err != nil {
			logger.Warn("classifier cache write failed", zap.Error(err))
		}
	}
	return proposed, nil
}

// generateWithRetry runs up to MaxAttempts calls with exponential backoff
// between transient failures. Cancellation of ctx ends the loop at once.
func (c *Classifier) generateWithRetry(ctx context.Context, req llm.Request) (string, error) {
	logger := logging.OrNop(c.Logger)
	attempts := max(1, c.Config.MaxAttempts)
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if c.Limiter != nil {
			if err := c.Limiter.Wait(ctx); err != nil {
				if ctx.Err() != nil {
					return "", ctx.Err()
				}
				return "", &ClassificationUnavailableError{Attempts: attempt - 1, Err: err}
			}
		}

		start := time.Now()
		attemptCtx, cancel := c.attemptContext(ctx)
		raw, err := c.LLM.Generate(attemptCtx, req)
		cancel()
		elapsed := time.Since(start)

		if err == nil {
			metrics.RecordClassifierAttempt(c.Provider, "success", elapsed)
			if attempt > 1 {
				logger.Info("classifier call succeeded after retry", zap.Int("attempt", attempt))
			}
			return raw, nil
		}

		if ctx.Err() != nil {
			metrics.RecordClassifierAttempt(c.Provider, "cancelled", elapsed)
			return "", ctx.Err()
		}
		metrics.RecordClassifierAttempt(c.Provider, outcome(err), elapsed)
		lastErr = err

		if !llm.IsRetryable(err) {
			logger.Warn("classifier call failed permanently", zap.Int("attempt", attempt), zap.Error(err))
			return "", &ClassificationUnavailableError{Attempts: attempt, Err: err}
		}
		if attempt == attempts {
			break
		}

		backoff := c.backoff(attempt)
		logger.Warn("classifier call failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Duration("backoff", backoff),
			zap.Error(err))

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	return "", &ClassificationUnavailableError{Attempts: attempts, Err: lastErr}
}

func (c *Classifier) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Config.Timeout.Duration <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.Config.Timeout.Duration)
}

func (c *Classifier) backoff(attempt int) time.Duration {
	mult := c.Config.BackoffMultiplier
	if mult < 1 {
		mult = 1
	}
	d := time.Duration(float64(c.Config.InitialBackoff.Duration) * math.Pow(mult, float64(attempt-1)))
	if maxB := c.Config.MaxBackoff.Duration; maxB > 0 && d > maxB {
		d = maxB
	}
	return d
}

func outcome(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case llm.IsRateLimited(err):
		return "rate_limited"
	default:
		return "error"
	}
}
