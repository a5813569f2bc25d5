package analyses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/pulse/internal/sentiment"
	"github.com/JaimeStill/pulse/pkg/pagination"
	"github.com/JaimeStill/pulse/pkg/query"
	"github.com/JaimeStill/pulse/pkg/repository"
)

// Store owns the durable, append-only set of analyses.
type Store interface {
	Append(ctx context.Context, a Analysis) error
	All(ctx context.Context) ([]Analysis, error)
	Aggregate(ctx context.Context) (*Aggregate, error)
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Analysis], error)
	Find(ctx context.Context, id uuid.UUID) (*Analysis, error)
}

type sqlStore struct {
	db *sql.DB
}

// NewStore returns a Store backed by db. The analyses table must already exist.
func NewStore(db *sql.DB) Store {
	return &sqlStore{db: db}
}

func persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

func (s *sqlStore) Append(ctx context.Context, a Analysis) error {
	insertQ := `
		INSERT INTO analyses(id, text, label, confidence, polarity, model_used, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, insertQ,
			a.ID,
			a.Text,
			string(a.Label),
			a.Confidence,
			a.Polarity,
			a.ModelUsed,
			metadataArg(a.Metadata),
			a.CreatedAt,
		)
	})
	if err != nil {
		return persistence("append analysis", repository.MapError(err, ErrNotFound, ErrDuplicate))
	}
	return nil
}

func (s *sqlStore) All(ctx context.Context) ([]Analysis, error) {
	q, _ := query.NewBuilder(projection, insertionOrder).Build()

	items, err := repository.QueryMany(ctx, s.db, q, nil, scanAnalysis)
	if err != nil {
		return nil, persistence("query analyses", err)
	}
	return items, nil
}

func (s *sqlStore) Aggregate(ctx context.Context) (*Aggregate, error) {
	agg := &Aggregate{Labels: make(map[sentiment.Label]LabelAggregate, len(sentiment.Labels))}
	for _, l := range sentiment.Labels {
		agg.Labels[l] = LabelAggregate{}
	}

	type labelRow struct {
		label string
		LabelAggregate
	}

	rows, err := repository.QueryMany(ctx, s.db,
		"SELECT label, COUNT(*), COALESCE(SUM(confidence), 0) FROM analyses GROUP BY label",
		nil,
		func(sc repository.Scanner) (labelRow, error) {
			var r labelRow
			err := sc.Scan(&r.label, &r.Count, &r.ConfidenceSum)
			return r, err
		},
	)
	if err != nil {
		return nil, persistence("aggregate analyses", err)
	}

	for _, r := range rows {
		agg.Labels[sentiment.Label(r.label)] = r.LabelAggregate
		agg.Total += r.Count
	}

	if agg.Total == 0 {
		return agg, nil
	}

	last, err := repository.QueryOne(ctx, s.db,
		"SELECT created_at FROM analyses ORDER BY seq DESC LIMIT 1",
		nil,
		func(sc repository.Scanner) (time.Time, error) {
			var t time.Time
			err := sc.Scan(&t)
			return t, err
		},
	)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, persistence("latest analysis", err)
	}
	if err == nil {
		last = last.UTC()
		agg.LastCreated = &last
	}

	return agg, nil
}

func (s *sqlStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM analyses").Scan(&n); err != nil {
		return 0, persistence("count analyses", err)
	}
	return n, nil
}

func (s *sqlStore) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Analysis], error) {
	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Text", "ModelUsed")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := s.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, persistence("count analyses", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, s.db, pageSQL, pageArgs, scanAnalysis)
	if err != nil {
		return nil, persistence("query analyses", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (s *sqlStore) Find(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, s.db, q, args, scanAnalysis)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, persistence("find analysis", err)
	}
	return &a, nil
}
