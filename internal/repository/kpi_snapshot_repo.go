package repository

import (
	"kpi-dashboard-backend/internal/models"

	"gorm.io/gorm"
)

type KpiSnapshotRepository struct {
	db *gorm.DB
}

func NewKpiSnapshotRepository(db *gorm.DB) *KpiSnapshotRepository {
	return &KpiSnapshotRepository{db: db}
}

// Expose DB if needed
func (r *KpiSnapshotRepository) DB() *gorm.DB {
	return r.db
}

// Latest returns the most recently created snapshot, or
// gorm.ErrRecordNotFound when the table is empty.
func (r *KpiSnapshotRepository) Latest() (*models.KpiSnapshot, error) {
	var snapshot models.KpiSnapshot
	err := r.db.Order("created_at DESC").First(&snapshot).Error
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// Recent returns up to limit snapshots, newest first.
func (r *KpiSnapshotRepository) Recent(limit int) ([]models.KpiSnapshot, error) {
	var snapshots []models.KpiSnapshot
	err := r.db.Order("created_at DESC").Limit(limit).Find(&snapshots).Error
	return snapshots, err
}

// InsertBatch inserts all snapshots in a single statement and returns the
// exact number of rows committed. The batch inserts or fails as a unit.
func (r *KpiSnapshotRepository) InsertBatch(snapshots []models.KpiSnapshot) (int, error) {
	if len(snapshots) == 0 {
		return 0, nil
	}
	res := r.db.Create(&snapshots)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}
