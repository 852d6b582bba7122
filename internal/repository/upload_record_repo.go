package repository

import (
	"kpi-dashboard-backend/internal/models"

	"gorm.io/gorm"
)

type UploadRecordRepository struct {
	db *gorm.DB
}

func NewUploadRecordRepository(db *gorm.DB) *UploadRecordRepository {
	return &UploadRecordRepository{db: db}
}

func (r *UploadRecordRepository) Create(record *models.UploadRecord) error {
	return r.db.Create(record).Error
}

// Recent returns up to limit upload records, newest first.
func (r *UploadRecordRepository) Recent(limit int) ([]models.UploadRecord, error) {
	var records []models.UploadRecord
	err := r.db.Order("upload_date DESC").Limit(limit).Find(&records).Error
	return records, err
}
