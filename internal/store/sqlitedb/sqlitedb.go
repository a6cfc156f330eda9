package sqlitedb

import (
	"context"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/surgelabs/surge/internal/domain"
)

// Store persists run summaries in a local sqlite file, so results survive
// between invocations of the tool.
type Store struct {
	db *gorm.DB
}

func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&domain.Run{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Save(ctx context.Context, r *domain.Run) error {
	return s.db.WithContext(ctx).Create(r).Error
}

func (s *Store) Recent(ctx context.Context, limit int) ([]domain.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []domain.Run
	err := s.db.WithContext(ctx).
		Order("started_at desc").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}
