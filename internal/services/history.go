package services

import (
	"context"

	"docgen/internal/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// HistoryService appends and lists generation history. Append-only: rows
// are written once per generated client output and never updated.
type HistoryService struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewHistoryService(db *gorm.DB, log zerolog.Logger) *HistoryService {
	return &HistoryService{db: db, log: log}
}

// Append implements generate.HistorySink.
func (s *HistoryService) Append(ctx context.Context, records []models.GenerationRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(&records).Error; err != nil {
		return storeErr(err)
	}
	return nil
}

// List returns history newest-first with the total row count.
func (s *HistoryService) List(ctx context.Context, limit, offset int) ([]models.GenerationRecord, int64, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.GenerationRecord{}).Count(&total).Error; err != nil {
		return nil, 0, storeErr(err)
	}

	var records []models.GenerationRecord
	err := s.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	if err != nil {
		return nil, 0, storeErr(err)
	}
	return records, total, nil
}
