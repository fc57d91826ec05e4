// Package sqlite is an embedded SQLite store for local runs and tests,
// built on gorm.
package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonMunkholm/personsvc/internal/core"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// personRow is the gorm model of the persons table.
type personRow struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	FirstName string `gorm:"size:255;not null;uniqueIndex:persons_business_key"`
	LastName  string `gorm:"size:255;not null;uniqueIndex:persons_business_key"`
	Address   string `gorm:"size:512;not null;default:'';uniqueIndex:persons_business_key"`
	Color     int    `gorm:"not null;index:persons_color_idx"`
}

func (personRow) TableName() string { return "persons" }

// Store implements core.Store on SQLite.
type Store struct {
	db *gorm.DB
}

var _ core.Store = (*Store)(nil)

// Open opens the database file at path (":memory:" for a private in-memory
// database) and, when migrate is set, creates the persons table.
func Open(path string, migrate bool) (*Store, error) {
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One writer at a time; also keeps an in-memory database on a single
	// connection.
	sqlDB.SetMaxOpenConns(1)

	if migrate {
		if err := conn.AutoMigrate(&personRow{}); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return &Store{db: conn}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) GetByID(ctx context.Context, id int64) (core.Person, error) {
	var row personRow
	if err := s.db.WithContext(ctx).Take(&row, id).Error; err != nil {
		return core.Person{}, translate(err)
	}
	return row.toPerson(), nil
}

func (s *Store) ListByColor(ctx context.Context, color core.Color) ([]core.Person, error) {
	var rows []personRow
	err := s.db.WithContext(ctx).
		Where("color = ?", color.ID()).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return toPersons(rows), nil
}

func (s *Store) List(ctx context.Context, offset, limit int) ([]core.Person, error) {
	var rows []personRow
	err := s.db.WithContext(ctx).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return toPersons(rows), nil
}

func (s *Store) ExistsByKey(ctx context.Context, key core.BusinessKey) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&personRow{}).
		Where("first_name = ? AND last_name = ? AND address = ?", key.FirstName, key.LastName, key.Address).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (s *Store) Save(ctx context.Context, m core.PersonCreateModel) (core.Person, error) {
	row := personRow{
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Address:   m.Address,
		Color:     m.Color.ID(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return core.Person{}, translate(err)
	}
	return row.toPerson(), nil
}

// translate maps gorm errors onto the core sentinels.
func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return core.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: persons_business_key", core.ErrAlreadyExists)
	default:
		return err
	}
}

func (r personRow) toPerson() core.Person {
	return core.Person{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Address:   r.Address,
		Color:     core.Color(r.Color),
	}
}

func toPersons(rows []personRow) []core.Person {
	out := make([]core.Person, len(rows))
	for i, r := range rows {
		out[i] = r.toPerson()
	}
	return out
}
