package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/JonMunkholm/personsvc/internal/config"
	"github.com/JonMunkholm/personsvc/internal/logging"
	"github.com/google/uuid"
)

// Service provides the business logic of the person service.
type Service struct {
	store   Store
	limiter *ImportLimiter

	importTimeout time.Duration
	defaultLimit  int
	maxLimit      int
}

// NewService creates a Service backed by store and tuned by cfg.
func NewService(store Store, cfg *config.Config) *Service {
	return &Service{
		store:         store,
		limiter:       NewImportLimiter(cfg.Import.MaxConcurrent, cfg.Import.MaxWaitTime),
		importTimeout: cfg.Import.Timeout,
		defaultLimit:  cfg.Pagination.DefaultLimit,
		maxLimit:      cfg.Pagination.MaxLimit,
	}
}

// CreatePerson validates m, rejects duplicates of its business key and
// persists it.
func (s *Service) CreatePerson(ctx context.Context, m PersonCreateModel) (Person, error) {
	m, err := Validate(m)
	if err != nil {
		return Person{}, err
	}

	p, err := s.create(ctx, m)
	if err != nil {
		return Person{}, err
	}

	logging.FromContext(ctx).Info("person created", "person_id", p.ID, "color", p.Color.String())
	return p, nil
}

// create persists an already validated model.
func (s *Service) create(ctx context.Context, m PersonCreateModel) (Person, error) {
	exists, err := s.store.ExistsByKey(ctx, m.Key())
	if err != nil {
		return Person{}, fmt.Errorf("check existing person: %w", err)
	}
	if exists {
		return Person{}, fmt.Errorf("%w: %s %s", ErrAlreadyExists, m.FirstName, m.LastName)
	}

	p, err := s.store.Save(ctx, m)
	if err != nil {
		return Person{}, fmt.Errorf("save person: %w", err)
	}
	return p, nil
}

// GetByID returns the person with the given id or ErrNotFound.
func (s *Service) GetByID(ctx context.Context, id int64) (Person, error) {
	if id <= 0 {
		return Person{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Person{}, fmt.Errorf("get person %d: %w", id, err)
	}
	return p, nil
}

// GetByColor returns every person with the given color. No match is
// reported as ErrNotFound rather than an empty list.
func (s *Service) GetByColor(ctx context.Context, color Color) ([]Person, error) {
	if !color.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidColor, int(color))
	}

	persons, err := s.store.ListByColor(ctx, color)
	if err != nil {
		return nil, fmt.Errorf("list persons by color %s: %w", color, err)
	}
	if len(persons) == 0 {
		return nil, fmt.Errorf("%w: no person with color %s", ErrNotFound, color)
	}
	return persons, nil
}

// GetPersons returns a page of persons ordered by id. offset is a row
// offset; a zero limit selects the default page size and limits above the
// maximum are clamped. An empty page is not an error.
func (s *Service) GetPersons(ctx context.Context, offset, limit int) ([]Person, error) {
	var errs ValidationErrors
	if offset < 0 {
		errs = append(errs, ValidationError{Field: "offset", Value: fmt.Sprint(offset), Message: "must not be negative"})
	}
	if limit < 0 {
		errs = append(errs, ValidationError{Field: "limit", Value: fmt.Sprint(limit), Message: "must not be negative"})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	if limit == 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	persons, err := s.store.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	if persons == nil {
		persons = []Person{}
	}
	return persons, nil
}

// ImportCSV reads persons from a CSV stream and persists every valid line.
// Invalid lines and duplicates are skipped and reported per line; they do
// not fail the import. The import fails only when the stream cannot be
// read, the store fails, no import slot is available, or the import
// timeout expires.
func (s *Service) ImportCSV(ctx context.Context, fileName string, r io.Reader) (*ImportResult, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.importTimeout)
	defer cancel()

	start := time.Now()
	result := &ImportResult{
		ImportID: uuid.New().String(),
		FileName: fileName,
		Persons:  []Person{},
		Lines:    []LineResult{},
	}

	log := logging.WithFields(ctx, "import_id", result.ImportID, "file", fileName)
	log.Info("import started")

	upload := wrapUpload(r)
	err := readCSV(upload, func(rec csvRecord) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if rec.Err != nil {
			log.Debug("line skipped", "line", rec.Line, "reason", rec.Err.Error())
			result.addSkipped(rec.Line, rec.Err.Error())
			return nil
		}

		p, err := s.create(ctx, rec.Model)
		switch {
		case err == nil:
			result.addImported(rec.Line, p)
		case errors.Is(err, ErrAlreadyExists):
			log.Debug("line skipped", "line", rec.Line, "reason", "already exists")
			result.addSkipped(rec.Line, "already exists")
		default:
			return fmt.Errorf("line %d: %w", rec.Line, err)
		}
		return nil
	})

	result.Duration = time.Since(start)
	result.DurationMs = result.Duration.Milliseconds()

	if err != nil {
		log.Error("import failed",
			"error", err,
			"imported", result.Imported,
			"skipped", result.Skipped,
		)
		return nil, fmt.Errorf("import %s: %w", result.ImportID, err)
	}

	log.Info("import completed",
		"lines", result.TotalLines,
		"imported", result.Imported,
		"skipped", result.Skipped,
		"bytes", upload.bytesRead,
		"duration_ms", result.DurationMs,
	)
	return result, nil
}

// ImportStatus reports the import limiter state.
func (s *Service) ImportStatus() ImportLimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until running imports finish or ctx is done.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
