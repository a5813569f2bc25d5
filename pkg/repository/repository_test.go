package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	_ "modernc.org/sqlite"

	"github.com/JaimeStill/pulse/pkg/repository"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("duplicate")
)

type item struct {
	ID   int
	Name string
}

func scanItem(s repository.Scanner) (item, error) {
	var it item
	err := s.Scan(&it.ID, &it.Name)
	return it, err
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "repo.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(`CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL UNIQUE)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

func TestMapErrorNil(t *testing.T) {
	got := repository.MapError(nil, errNotFound, errDuplicate)
	if got != nil {
		t.Errorf("MapError(nil) = %v, want nil", got)
	}
}

func TestMapErrorNotFound(t *testing.T) {
	got := repository.MapError(sql.ErrNoRows, errNotFound, errDuplicate)
	if !errors.Is(got, errNotFound) {
		t.Errorf("MapError(ErrNoRows) = %v, want %v", got, errNotFound)
	}
}

func TestMapErrorPgDuplicate(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505"}
	got := repository.MapError(pgErr, errNotFound, errDuplicate)
	if !errors.Is(got, errDuplicate) {
		t.Errorf("MapError(PgError 23505) = %v, want %v", got, errDuplicate)
	}
}

func TestMapErrorPgNonDuplicate(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503"}
	got := repository.MapError(pgErr, errNotFound, errDuplicate)
	if got != pgErr {
		t.Errorf("MapError(PgError 23503) should pass through, got %v", got)
	}
}

func TestMapErrorPassthrough(t *testing.T) {
	original := errors.New("some other error")
	got := repository.MapError(original, errNotFound, errDuplicate)
	if got != original {
		t.Errorf("MapError(other) = %v, want %v", got, original)
	}
}

func TestMapErrorSQLiteDuplicate(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	if err := repository.ExecExpectOne(ctx, db, "INSERT INTO items (name) VALUES ($1)", "alpha"); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	err := repository.ExecExpectOne(ctx, db, "INSERT INTO items (name) VALUES ($1)", "alpha")
	if err == nil {
		t.Fatal("expected unique violation")
	}

	if got := repository.MapError(err, errNotFound, errDuplicate); !errors.Is(got, errDuplicate) {
		t.Errorf("MapError(sqlite unique) = %v, want %v", got, errDuplicate)
	}
}

func TestWithTxCommitAndRollback(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	t.Run("commit", func(t *testing.T) {
		got, err := repository.WithTx(ctx, db, func(tx *sql.Tx) (item, error) {
			return repository.QueryOne(
				ctx, tx,
				"INSERT INTO items (name) VALUES ($1) RETURNING id, name",
				[]any{"committed"},
				scanItem,
			)
		})
		if err != nil {
			t.Fatalf("WithTx: %v", err)
		}
		if got.Name != "committed" {
			t.Errorf("name: got %s, want committed", got.Name)
		}
	})

	t.Run("rollback", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := repository.WithTx(ctx, db, func(tx *sql.Tx) (struct{}, error) {
			if err := repository.ExecExpectOne(ctx, tx, "INSERT INTO items (name) VALUES ($1)", "rolled"); err != nil {
				return struct{}{}, err
			}
			return struct{}{}, boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("WithTx error = %v, want boom", err)
		}

		_, err = repository.QueryOne(ctx, db, "SELECT id, name FROM items WHERE name = $1", []any{"rolled"}, scanItem)
		if !errors.Is(err, sql.ErrNoRows) {
			t.Errorf("rolled back row visible: err = %v", err)
		}
	})
}

func TestQueryManyOrder(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	for _, name := range []string{"c", "a", "b"} {
		if err := repository.ExecExpectOne(ctx, db, "INSERT INTO items (name) VALUES ($1)", name); err != nil {
			t.Fatalf("insert %s: %v", name, err)
		}
	}

	items, err := repository.QueryMany(ctx, db, "SELECT id, name FROM items ORDER BY id", nil, scanItem)
	if err != nil {
		t.Fatalf("QueryMany: %v", err)
	}

	want := []string{"c", "a", "b"}
	if len(items) != len(want) {
		t.Fatalf("len: got %d, want %d", len(items), len(want))
	}
	for i, it := range items {
		if it.Name != want[i] {
			t.Errorf("items[%d]: got %s, want %s", i, it.Name, want[i])
		}
	}
}

func TestQueryManyEmpty(t *testing.T) {
	db := openDB(t)

	items, err := repository.QueryMany(context.Background(), db, "SELECT id, name FROM items", nil, scanItem)
	if err != nil {
		t.Fatalf("QueryMany: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("got %v, want empty non-nil slice", items)
	}
}

func TestExecExpectOne(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	for _, name := range []string{"x", "y"} {
		if err := repository.ExecExpectOne(ctx, db, "INSERT INTO items (name) VALUES ($1)", name); err != nil {
			t.Fatalf("insert %s: %v", name, err)
		}
	}

	if err := repository.ExecExpectOne(ctx, db, "DELETE FROM items WHERE name = $1", "missing"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("no rows: got %v, want sql.ErrNoRows", err)
	}

	if err := repository.ExecExpectOne(ctx, db, "UPDATE items SET name = name || '!'"); !errors.Is(err, repository.ErrUnexpectedRows) {
		t.Errorf("many rows: got %v, want ErrUnexpectedRows", err)
	}
}
