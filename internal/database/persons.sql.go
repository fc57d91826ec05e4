package database

import (
	"context"
)

// PersonRow is a row of the persons table.
type PersonRow struct {
	ID        int64
	FirstName string
	LastName  string
	Address   string
	Color     int32
}

const getPerson = `
SELECT id, first_name, last_name, address, color
FROM persons
WHERE id = $1
`

func (q *Queries) GetPerson(ctx context.Context, id int64) (PersonRow, error) {
	row := q.db.QueryRow(ctx, getPerson, id)
	var p PersonRow
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Address, &p.Color)
	return p, err
}

const listPersonsByColor = `
SELECT id, first_name, last_name, address, color
FROM persons
WHERE color = $1
ORDER BY id
`

func (q *Queries) ListPersonsByColor(ctx context.Context, color int32) ([]PersonRow, error) {
	rows, err := q.db.Query(ctx, listPersonsByColor, color)
	if err != nil {
		return nil, err
	}
	return scanPersons(rows)
}

const listPersons = `
SELECT id, first_name, last_name, address, color
FROM persons
ORDER BY id
OFFSET $1
LIMIT $2
`

type ListPersonsParams struct {
	Offset int64
	Limit  int64
}

func (q *Queries) ListPersons(ctx context.Context, arg ListPersonsParams) ([]PersonRow, error) {
	rows, err := q.db.Query(ctx, listPersons, arg.Offset, arg.Limit)
	if err != nil {
		return nil, err
	}
	return scanPersons(rows)
}

const personExists = `
SELECT EXISTS (
    SELECT 1 FROM persons
    WHERE first_name = $1 AND last_name = $2 AND address = $3
)
`

type PersonKeyParams struct {
	FirstName string
	LastName  string
	Address   string
}

func (q *Queries) PersonExists(ctx context.Context, arg PersonKeyParams) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, personExists, arg.FirstName, arg.LastName, arg.Address).Scan(&exists)
	return exists, err
}

const insertPerson = `
INSERT INTO persons (first_name, last_name, address, color)
VALUES ($1, $2, $3, $4)
RETURNING id, first_name, last_name, address, color
`

type InsertPersonParams struct {
	FirstName string
	LastName  string
	Address   string
	Color     int32
}

func (q *Queries) InsertPerson(ctx context.Context, arg InsertPersonParams) (PersonRow, error) {
	row := q.db.QueryRow(ctx, insertPerson, arg.FirstName, arg.LastName, arg.Address, arg.Color)
	var p PersonRow
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Address, &p.Color)
	return p, err
}

const deleteAllPersons = `TRUNCATE persons RESTART IDENTITY`

// DeleteAllPersons empties the table. Used by tests.
func (q *Queries) DeleteAllPersons(ctx context.Context) error {
	_, err := q.db.Exec(ctx, deleteAllPersons)
	return err
}

type scannableRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

func scanPersons(rows scannableRows) ([]PersonRow, error) {
	defer rows.Close()
	var items []PersonRow
	for rows.Next() {
		var p PersonRow
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Address, &p.Color); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
