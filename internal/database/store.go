package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonMunkholm/personsvc/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// Store implements core.Store on PostgreSQL.
type Store struct {
	q *Queries
}

var _ core.Store = (*Store)(nil)

// NewStore returns a Store running queries on db, typically a *pgxpool.Pool.
func NewStore(db DBTX) *Store {
	return &Store{q: New(db)}
}

func (s *Store) GetByID(ctx context.Context, id int64) (core.Person, error) {
	row, err := s.q.GetPerson(ctx, id)
	if err != nil {
		return core.Person{}, translate(err)
	}
	return toPerson(row), nil
}

func (s *Store) ListByColor(ctx context.Context, color core.Color) ([]core.Person, error) {
	rows, err := s.q.ListPersonsByColor(ctx, int32(color.ID()))
	if err != nil {
		return nil, translate(err)
	}
	return toPersons(rows), nil
}

func (s *Store) List(ctx context.Context, offset, limit int) ([]core.Person, error) {
	rows, err := s.q.ListPersons(ctx, ListPersonsParams{Offset: int64(offset), Limit: int64(limit)})
	if err != nil {
		return nil, translate(err)
	}
	return toPersons(rows), nil
}

func (s *Store) ExistsByKey(ctx context.Context, key core.BusinessKey) (bool, error) {
	exists, err := s.q.PersonExists(ctx, PersonKeyParams{
		FirstName: key.FirstName,
		LastName:  key.LastName,
		Address:   key.Address,
	})
	if err != nil {
		return false, translate(err)
	}
	return exists, nil
}

// Save inserts m. A concurrent insert of the same business key surfaces as
// core.ErrAlreadyExists through the unique constraint.
func (s *Store) Save(ctx context.Context, m core.PersonCreateModel) (core.Person, error) {
	row, err := s.q.InsertPerson(ctx, InsertPersonParams{
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Address:   m.Address,
		Color:     int32(m.Color.ID()),
	})
	if err != nil {
		return core.Person{}, translate(err)
	}
	return toPerson(row), nil
}

// translate maps driver errors onto the core sentinels.
func translate(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return core.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", core.ErrAlreadyExists, pgErr.ConstraintName)
	}
	return err
}

func toPerson(r PersonRow) core.Person {
	return core.Person{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Address:   r.Address,
		Color:     core.Color(r.Color),
	}
}

func toPersons(rows []PersonRow) []core.Person {
	out := make([]core.Person, len(rows))
	for i, r := range rows {
		out[i] = toPerson(r)
	}
	return out
}
