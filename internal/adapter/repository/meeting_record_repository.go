package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
)

// MeetingRecordRepository handles meeting record data operations
type MeetingRecordRepository struct {
	db *gorm.DB
}

// NewMeetingRecordRepository creates a new meeting record repository
func NewMeetingRecordRepository(db *gorm.DB) *MeetingRecordRepository {
	return &MeetingRecordRepository{db: db}
}

// Save upserts a record by id. Saving the same record twice leaves a single
// row, so a retried pipeline run never duplicates data.
func (r *MeetingRecordRepository) Save(ctx context.Context, record *entities.MeetingRecord) error {
	if record == nil {
		return errors.New("record cannot be nil")
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(record).Error
	if err != nil {
		return fmt.Errorf("%w: %v", entities.ErrPersistenceUnavailable, err)
	}
	return nil
}

// GetByID retrieves a record by ID
func (r *MeetingRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.MeetingRecord, error) {
	var record entities.MeetingRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

// List retrieves records newest first
func (r *MeetingRecordRepository) List(ctx context.Context, limit, offset int) ([]entities.MeetingRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var records []entities.MeetingRecord
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Count returns the number of stored records
func (r *MeetingRecordRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.MeetingRecord{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
