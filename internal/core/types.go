package core

import (
	"context"
	"strings"
	"time"
)

// Person is a stored person record. ID is assigned by the store.
type Person struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	Color     Color  `json:"color"`
}

// PersonCreateModel is the input shape for creating a person, from a JSON
// request body or a CSV line.
type PersonCreateModel struct {
	FirstName string `json:"firstName" validate:"required,max=255"`
	LastName  string `json:"lastName" validate:"required,max=255"`
	Address   string `json:"address" validate:"max=512"`
	Color     Color  `json:"color" validate:"required"`
}

// Normalize trims surrounding whitespace from all text fields.
func (m PersonCreateModel) Normalize() PersonCreateModel {
	m.FirstName = strings.TrimSpace(m.FirstName)
	m.LastName = strings.TrimSpace(m.LastName)
	m.Address = strings.TrimSpace(m.Address)
	return m
}

// Key returns the business key of the model.
func (m PersonCreateModel) Key() BusinessKey {
	return BusinessKey{FirstName: m.FirstName, LastName: m.LastName, Address: m.Address}
}

// BusinessKey identifies a person independently of the generated id.
type BusinessKey struct {
	FirstName string
	LastName  string
	Address   string
}

// Store is the persistence collaborator of the Service.
// Implementations translate "no row" into ErrNotFound and unique key
// violations into ErrAlreadyExists.
type Store interface {
	GetByID(ctx context.Context, id int64) (Person, error)
	// ListByColor returns matching persons ordered by id. An empty result is
	// not an error at this level.
	ListByColor(ctx context.Context, color Color) ([]Person, error)
	// List returns a page of persons ordered by id.
	List(ctx context.Context, offset, limit int) ([]Person, error)
	ExistsByKey(ctx context.Context, key BusinessKey) (bool, error)
	Save(ctx context.Context, m PersonCreateModel) (Person, error)
}

// LineStatus is the outcome of a single CSV line.
type LineStatus string

const (
	LineImported LineStatus = "imported"
	LineSkipped  LineStatus = "skipped"
)

// LineResult reports what happened to one CSV line.
type LineResult struct {
	Line     int        `json:"line"`
	Status   LineStatus `json:"status"`
	PersonID int64      `json:"personId,omitempty"`
	Reason   string     `json:"reason,omitempty"`
}

// ImportResult summarises a CSV import.
type ImportResult struct {
	ImportID   string        `json:"importId"`
	FileName   string        `json:"fileName,omitempty"`
	TotalLines int           `json:"totalLines"`
	Imported   int           `json:"imported"`
	Skipped    int           `json:"skipped"`
	Persons    []Person      `json:"persons"`
	Lines      []LineResult  `json:"lines"`
	Duration   time.Duration `json:"-"`
	DurationMs int64         `json:"durationMs"`
}

func (r *ImportResult) addImported(line int, p Person) {
	r.TotalLines++
	r.Imported++
	r.Persons = append(r.Persons, p)
	r.Lines = append(r.Lines, LineResult{Line: line, Status: LineImported, PersonID: p.ID})
}

func (r *ImportResult) addSkipped(line int, reason string) {
	r.TotalLines++
	r.Skipped++
	r.Lines = append(r.Lines, LineResult{Line: line, Status: LineSkipped, Reason: reason})
}
