package analyses_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/pulse/internal/analyses"
	"github.com/JaimeStill/pulse/internal/schema"
	"github.com/JaimeStill/pulse/internal/sentiment"
	"github.com/JaimeStill/pulse/pkg/database"
	"github.com/JaimeStill/pulse/pkg/pagination"
)

func openStore(t *testing.T) (analyses.Store, *sql.DB) {
	t.Helper()
	return openStoreAt(t, filepath.Join(t.TempDir(), "pulse.db"))
}

// openStoreAt opens a migrated store on the SQLite file at path, as a fresh process would.
func openStoreAt(t *testing.T, path string) (analyses.Store, *sql.DB) {
	t.Helper()

	cfg := &database.Config{
		Driver: database.DriverSQLite,
		Path:   path,
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	db, err := database.New(cfg, discardLogger())
	if err != nil {
		t.Fatalf("database: %v", err)
	}
	t.Cleanup(func() { db.Connection().Close() })

	if err := schema.Up(cfg); err != nil {
		t.Fatalf("schema: %v", err)
	}

	return analyses.NewStore(db.Connection()), db.Connection()
}

func record(text string, label sentiment.Label, confidence float64, at time.Time) analyses.Analysis {
	return analyses.Analysis{
		ID:         uuid.New(),
		Text:       text,
		Label:      label,
		Confidence: confidence,
		ModelUsed:  sentiment.ModelKeyword,
		CreatedAt:  at,
	}
}

func TestStoreAppendAndAll(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// created_at is out of order; All must follow insertion order.
	want := []analyses.Analysis{
		record("first", sentiment.Positive, 0.7, base.Add(2*time.Minute)),
		record("second", sentiment.Negative, 0.9, base),
		record("third", sentiment.Neutral, 0.5, base.Add(time.Minute)),
	}
	want[0].Metadata = []byte(`{"source":"survey"}`)
	want[1].Polarity = -0.6

	for _, a := range want {
		if err := store.Append(ctx, a); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := store.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("all: got %d, want %d", len(got), len(want))
	}

	for i := range want {
		if got[i].ID != want[i].ID || got[i].Text != want[i].Text || got[i].Label != want[i].Label {
			t.Errorf("record %d: got %+v, want %+v", i, got[i], want[i])
		}
		if !got[i].CreatedAt.Equal(want[i].CreatedAt) {
			t.Errorf("record %d created_at: got %v, want %v", i, got[i].CreatedAt, want[i].CreatedAt)
		}
	}
	if string(got[0].Metadata) != `{"source":"survey"}` {
		t.Errorf("metadata: got %s", got[0].Metadata)
	}
	if got[1].Metadata != nil {
		t.Errorf("metadata: got %s, want nil", got[1].Metadata)
	}
	if got[1].Polarity != -0.6 {
		t.Errorf("polarity: got %v", got[1].Polarity)
	}
}

func TestStoreAggregateEmpty(t *testing.T) {
	store, _ := openStore(t)

	agg, err := store.Aggregate(context.Background())
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if agg.Total != 0 || agg.AverageConfidence() != 0 {
		t.Errorf("aggregate: got total=%d avg=%v", agg.Total, agg.AverageConfidence())
	}
	for _, l := range sentiment.Labels {
		if _, ok := agg.Labels[l]; !ok {
			t.Errorf("label %s missing", l)
		}
	}
	if agg.LastCreated != nil {
		t.Errorf("last created: got %v, want nil", agg.LastCreated)
	}
}

func TestStoreAggregate(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	records := []analyses.Analysis{
		record("a", sentiment.Positive, 0.8, base),
		record("b", sentiment.Positive, 0.6, base.Add(time.Second)),
		record("c", sentiment.Negative, 1.0, base.Add(2*time.Second)),
		record("d", sentiment.Positive, 0.4, base.Add(3*time.Second)),
	}
	for _, a := range records {
		if err := store.Append(ctx, a); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	agg, err := store.Aggregate(ctx)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}

	if agg.Total != len(records) {
		t.Errorf("total: got %d, want %d", agg.Total, len(records))
	}

	sum := 0
	for _, l := range agg.Labels {
		sum += l.Count
	}
	if sum != agg.Total {
		t.Errorf("label counts sum: got %d, want %d", sum, agg.Total)
	}

	if agg.Labels[sentiment.Positive].Count != 3 || agg.Labels[sentiment.Neutral].Count != 0 {
		t.Errorf("labels: got %+v", agg.Labels)
	}
	if avg := agg.AverageConfidence(); avg < 0.6999 || avg > 0.7001 {
		t.Errorf("avg confidence: got %v, want 0.7", avg)
	}
	if agg.LastCreated == nil || !agg.LastCreated.Equal(base.Add(3*time.Second)) {
		t.Errorf("last created: got %v", agg.LastCreated)
	}

	n, err := store.Count(ctx)
	if err != nil || n != len(records) {
		t.Errorf("count: got %d (%v), want %d", n, err, len(records))
	}
}

func TestStoreConcurrentAppend(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()

	const n = 25
	var wg sync.WaitGroup
	errs := make(chan error, n)

	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a := record(fmt.Sprintf("item %d", i), sentiment.Neutral, 0.5, time.Now().UTC())
			if err := store.Append(ctx, a); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("append: %v", err)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != n {
		t.Errorf("count: got %d, want %d", count, n)
	}
}

func TestStoreDuplicateID(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()

	a := record("once", sentiment.Neutral, 0.5, time.Now().UTC())
	if err := store.Append(ctx, a); err != nil {
		t.Fatalf("append: %v", err)
	}

	err := store.Append(ctx, a)
	if !errors.Is(err, analyses.ErrPersistence) || !errors.Is(err, analyses.ErrDuplicate) {
		t.Errorf("err: got %v, want ErrPersistence and ErrDuplicate", err)
	}

	if n, _ := store.Count(ctx); n != 1 {
		t.Errorf("count: got %d, want 1", n)
	}
}

func TestStoreFind(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()

	a := record("find me", sentiment.Positive, 0.9, time.Now().UTC())
	if err := store.Append(ctx, a); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := store.Find(ctx, a.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Text != "find me" {
		t.Errorf("text: got %s", got.Text)
	}

	if _, err := store.Find(ctx, uuid.New()); !errors.Is(err, analyses.ErrNotFound) {
		t.Errorf("err: got %v, want ErrNotFound", err)
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "pulse.db")
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	store, db := openStoreAt(t, path)
	written := []analyses.Analysis{
		record("before restart one", sentiment.Positive, 0.8, base),
		record("before restart two", sentiment.Negative, 0.6, base.Add(time.Minute)),
		record("before restart three", sentiment.Neutral, 0.5, base.Add(2*time.Minute)),
	}
	for _, a := range written {
		if err := store.Append(ctx, a); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, _ := openStoreAt(t, path)

	got, err := reopened.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(got) != len(written) {
		t.Fatalf("records: got %d, want %d", len(got), len(written))
	}
	for i := range written {
		if got[i].ID != written[i].ID || got[i].Text != written[i].Text {
			t.Errorf("record %d: got %s %q, want %s %q", i, got[i].ID, got[i].Text, written[i].ID, written[i].Text)
		}
	}

	agg, err := reopened.Aggregate(ctx)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if agg.Total != 3 {
		t.Errorf("total: got %d, want 3", agg.Total)
	}
	if agg.LastCreated == nil || !agg.LastCreated.Equal(written[2].CreatedAt) {
		t.Errorf("last created: got %v, want %s", agg.LastCreated, written[2].CreatedAt)
	}
}

func TestStoreList(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	texts := []struct {
		text  string
		label sentiment.Label
	}{
		{"Fast Shipping", sentiment.Positive},
		{"slow shipping", sentiment.Negative},
		{"ok packaging", sentiment.Neutral},
		{"great support", sentiment.Positive},
		{"100% broken", sentiment.Negative},
	}
	for i, tt := range texts {
		if err := store.Append(ctx, record(tt.text, tt.label, 0.5, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	t.Run("default sort newest first", func(t *testing.T) {
		res, err := store.List(ctx, pagination.PageRequest{Page: 1, PageSize: 2}, analyses.Filters{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if res.Total != 5 || res.TotalPages != 3 || len(res.Data) != 2 {
			t.Fatalf("page: got total=%d pages=%d len=%d", res.Total, res.TotalPages, len(res.Data))
		}
		if res.Data[0].Text != "100% broken" {
			t.Errorf("first: got %s", res.Data[0].Text)
		}
	})

	t.Run("label filter", func(t *testing.T) {
		f := analyses.Filters{Labels: []sentiment.Label{sentiment.Positive}}
		res, err := store.List(ctx, pagination.PageRequest{Page: 1, PageSize: 10}, f)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if res.Total != 2 {
			t.Errorf("total: got %d, want 2", res.Total)
		}
	})

	t.Run("multiple labels", func(t *testing.T) {
		f := analyses.Filters{Labels: []sentiment.Label{sentiment.Positive, sentiment.Neutral}}
		res, err := store.List(ctx, pagination.PageRequest{Page: 1, PageSize: 10}, f)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if res.Total != 3 {
			t.Errorf("total: got %d, want 3", res.Total)
		}
	})

	t.Run("text filter combined with label", func(t *testing.T) {
		text := "Shipping"
		f := analyses.Filters{Labels: []sentiment.Label{sentiment.Negative}, Text: &text}
		res, err := store.List(ctx, pagination.PageRequest{Page: 1, PageSize: 10}, f)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if res.Total != 1 || res.Data[0].Text != "slow shipping" {
			t.Errorf("got total=%d data=%+v", res.Total, res.Data)
		}
	})

	t.Run("case-insensitive search", func(t *testing.T) {
		search := "SHIPPING"
		res, err := store.List(ctx, pagination.PageRequest{Page: 1, PageSize: 10, Search: &search}, analyses.Filters{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if res.Total != 2 {
			t.Errorf("total: got %d, want 2", res.Total)
		}
	})

	t.Run("search escapes wildcards", func(t *testing.T) {
		search := "100%"
		res, err := store.List(ctx, pagination.PageRequest{Page: 1, PageSize: 10, Search: &search}, analyses.Filters{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if res.Total != 1 {
			t.Errorf("total: got %d, want 1", res.Total)
		}
	})
}

func TestStoreClosedDatabase(t *testing.T) {
	store, db := openStore(t)
	db.Close()

	err := store.Append(context.Background(), record("x", sentiment.Neutral, 0.5, time.Now().UTC()))
	if !errors.Is(err, analyses.ErrPersistence) {
		t.Errorf("append err: got %v, want ErrPersistence", err)
	}

	if _, err := store.Aggregate(context.Background()); !errors.Is(err, analyses.ErrPersistence) {
		t.Errorf("aggregate err: got %v, want ErrPersistence", err)
	}
}
