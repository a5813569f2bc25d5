package sentiment

import (
	"context"
	"log/slog"
)

// Classifier pairs a primary model with the keyword fallback.
// Classify always produces a valid Result.
type Classifier interface {
	Classify(ctx context.Context, text string) Result
	ModelLoaded() bool
	Primary() string
}

type classifier struct {
	primary  Model
	fallback Model
	logger   *slog.Logger
}

// New selects the primary model from cfg. When the primary cannot be
// constructed the classifier runs on the fallback alone.
func New(cfg *Config, logger *slog.Logger) Classifier {
	logger = logger.With("system", "classifier")

	var primary Model
	switch cfg.Primary {
	case ModelVader:
		primary = NewVader(cfg.PositiveThreshold, cfg.NegativeThreshold)
	case ModelOpenAI:
		m, err := NewOpenAI(&cfg.OpenAI)
		if err != nil {
			logger.Warn("primary model unavailable, using fallback", "model", cfg.Primary, "error", err)
		} else {
			primary = m
		}
	}

	return NewWithModels(primary, NewKeyword(), logger)
}

// NewWithModels builds a classifier from explicit models. primary may be nil.
func NewWithModels(primary, fallback Model, logger *slog.Logger) Classifier {
	return &classifier{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (c *classifier) ModelLoaded() bool {
	return c.primary != nil
}

func (c *classifier) Primary() string {
	if c.primary == nil {
		return c.fallback.Name()
	}
	return c.primary.Name()
}

func (c *classifier) Classify(ctx context.Context, text string) Result {
	text = Normalize(text)

	if c.primary != nil {
		res, err := c.primary.Classify(ctx, text)
		if err == nil {
			return res.sanitize(c.primary.Name())
		}
		c.logger.Warn("primary model failed, using fallback",
			"model", c.primary.Name(),
			"error", err,
		)
	}

	res, err := c.fallback.Classify(ctx, text)
	if err != nil {
		c.logger.Error("fallback model failed", "model", c.fallback.Name(), "error", err)
		return Result{Label: Neutral, Model: c.fallback.Name()}
	}
	return res.sanitize(c.fallback.Name())
}
