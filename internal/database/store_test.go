package database

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/JonMunkholm/personsvc/internal/config"
	"github.com/JonMunkholm/personsvc/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, core.ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "persons_business_key"}, core.ErrAlreadyExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := translate(tt.err); !errors.Is(got, tt.want) {
				t.Errorf("translate() = %v, want %v", got, tt.want)
			}
		})
	}

	other := &pgconn.PgError{Code: "23503"}
	if got := translate(other); got != other {
		t.Errorf("translate(other) = %v, want unchanged", got)
	}
}

// newTestStore connects to TEST_DATABASE_URL and empties the persons table.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := Connect(ctx, config.DatabaseConfig{URL: url, MaxConns: 2, MinConns: 1})
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(pool.Close)

	if err := Migrate(ctx, pool); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if err := New(pool).DeleteAllPersons(ctx); err != nil {
		t.Fatalf("DeleteAllPersons() error = %v", err)
	}
	return NewStore(pool)
}

func TestStore_Postgres(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	hans := core.PersonCreateModel{FirstName: "Hans", LastName: "Müller", Address: "67742 Lauterecken", Color: core.ColorBlue}
	p, err := store.Save(ctx, hans)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if p.ID == 0 || p.Color != core.ColorBlue {
		t.Errorf("Save() = %+v", p)
	}

	if _, err := store.Save(ctx, hans); !errors.Is(err, core.ErrAlreadyExists) {
		t.Errorf("duplicate Save() error = %v, want ErrAlreadyExists", err)
	}

	exists, err := store.ExistsByKey(ctx, hans.Key())
	if err != nil || !exists {
		t.Errorf("ExistsByKey() = %v, %v", exists, err)
	}

	got, err := store.GetByID(ctx, p.ID)
	if err != nil || got != p {
		t.Errorf("GetByID() = %+v, %v", got, err)
	}
	if _, err := store.GetByID(ctx, p.ID+1000); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("GetByID(missing) error = %v, want ErrNotFound", err)
	}

	peter := core.PersonCreateModel{FirstName: "Peter", LastName: "Petersen", Address: "18439 Stralsund", Color: core.ColorGreen}
	if _, err := store.Save(ctx, peter); err != nil {
		t.Fatal(err)
	}

	blue, err := store.ListByColor(ctx, core.ColorBlue)
	if err != nil || len(blue) != 1 {
		t.Errorf("ListByColor() = %+v, %v", blue, err)
	}

	page, err := store.List(ctx, 1, 10)
	if err != nil || len(page) != 1 || page[0].FirstName != "Peter" {
		t.Errorf("List(1, 10) = %+v, %v", page, err)
	}
}
