package analyses

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/pulse/internal/sentiment"
	"github.com/JaimeStill/pulse/pkg/pagination"
)

type service struct {
	store      Store
	classifier sentiment.Classifier
	limits     Limits
	logger     *slog.Logger
	pagination pagination.Config
	now        func() time.Time
}

// New creates the analysis service over an injected store and classifier.
func New(
	store Store,
	classifier sentiment.Classifier,
	limits Limits,
	pagination pagination.Config,
	logger *slog.Logger,
) System {
	if limits.BatchConcurrency < 1 {
		limits.BatchConcurrency = 1
	}
	return &service{
		store:      store,
		classifier: classifier,
		limits:     limits,
		logger:     logger.With("system", "analyses"),
		pagination: pagination,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger, s.pagination, s.limits.MaxBodyBytes)
}

func (s *service) validateText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", invalid(ReasonEmpty, "text must not be empty")
	}
	if n := utf8.RuneCountInString(text); n > s.limits.MaxTextLength {
		return "", invalid(ReasonTooLong,
			fmt.Sprintf("text length %d exceeds maximum of %d characters", n, s.limits.MaxTextLength))
	}
	return text, nil
}

// classify builds an unsaved record; CreatedAt is stamped when it is appended.
func (s *service) classify(ctx context.Context, text string, metadata []byte) Analysis {
	res := s.classifier.Classify(ctx, text)

	return Analysis{
		ID:         uuid.New(),
		Text:       text,
		Label:      res.Label,
		Confidence: res.Confidence,
		Polarity:   res.Polarity,
		ModelUsed:  res.Model,
		Metadata:   metadata,
	}
}

func (s *service) append(ctx context.Context, a Analysis) (*Analysis, error) {
	a.CreatedAt = s.now()
	if err := s.store.Append(ctx, a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *service) Analyze(ctx context.Context, cmd AnalyzeCommand) (*Analysis, error) {
	text, err := s.validateText(cmd.Text)
	if err != nil {
		return nil, err
	}

	a, err := s.append(ctx, s.classify(ctx, text, cmd.Metadata))
	if err != nil {
		return nil, err
	}

	s.logger.Info("feedback analyzed",
		"id", a.ID,
		"label", a.Label,
		"confidence", a.Confidence,
		"model", a.ModelUsed,
	)
	return a, nil
}

func (s *service) AnalyzeBatch(ctx context.Context, cmd BatchCommand) (*BatchResult, error) {
	if len(cmd.Texts) == 0 {
		return nil, invalid(ReasonEmptyBatch, "texts must contain at least one item")
	}
	if len(cmd.Texts) > s.limits.MaxBatchSize {
		return nil, invalid(ReasonBatchTooLarge,
			fmt.Sprintf("batch size %d exceeds maximum of %d", len(cmd.Texts), s.limits.MaxBatchSize))
	}

	results := make([]BatchItem, len(cmd.Texts))
	pending := make([]*Analysis, len(cmd.Texts))

	// classification fans out; appends run in input order so insertion
	// order and created_at follow the request
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limits.BatchConcurrency)

	for i, raw := range cmd.Texts {
		results[i].Index = i

		text, err := s.validateText(raw)
		if err != nil {
			var ve *ValidationError
			errors.As(err, &ve)
			results[i].Error = &ItemError{Reason: ve.Reason, Message: ve.Message}
			continue
		}

		g.Go(func() error {
			a := s.classify(gctx, text, nil)
			pending[i] = &a
			return nil
		})
	}
	g.Wait()

	for i, a := range pending {
		if a == nil {
			continue
		}
		saved, err := s.append(ctx, *a)
		if err != nil {
			return nil, fmt.Errorf("batch item %d: %w", i, err)
		}
		results[i].Success = true
		results[i].Analysis = saved
	}

	out := &BatchResult{Results: results}
	for _, r := range results {
		if r.Success {
			out.Succeeded++
		} else {
			out.Failed++
		}
	}

	s.logger.Info("batch analyzed",
		"size", len(results),
		"succeeded", out.Succeeded,
		"failed", out.Failed,
	)
	return out, nil
}

func (s *service) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Analysis], error) {
	page.Normalize(s.pagination)
	return s.store.List(ctx, page, filters)
}

func (s *service) Find(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	return s.store.Find(ctx, id)
}

func (s *service) Export(ctx context.Context) ([]Analysis, error) {
	return s.store.All(ctx)
}
