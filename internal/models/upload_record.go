package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UploadRecord is written once per ingestion batch that completed
// successfully. Filename is client-supplied and display-only.
type UploadRecord struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Filename      string         `json:"filename"`
	RecordsCount  int            `json:"records_count"`
	Status        string         `json:"status"`
	SourceColumns datatypes.JSON `json:"source_columns"`
	UploadDate    time.Time      `gorm:"index" json:"upload_date"`
}
