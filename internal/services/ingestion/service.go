package ingestion

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"kpi-dashboard-backend/internal/models"
	"kpi-dashboard-backend/internal/repository"

	"github.com/google/uuid"
)

const StatusSuccess = "success"

type Service struct {
	snapshots *repository.KpiSnapshotRepository
	uploads   *repository.UploadRecordRepository
}

func NewService(
	snapshots *repository.KpiSnapshotRepository,
	uploads *repository.UploadRecordRepository,
) *Service {
	return &Service{
		snapshots: snapshots,
		uploads:   uploads,
	}
}

// Process runs one ingestion batch: parse the file at path, normalize and
// coerce each row, insert the whole batch, then record the upload. The temp
// file is removed on every exit path. Returns the number of rows committed.
func (s *Service) Process(path, filename, ext string) (int, error) {
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Println("Failed to remove temp file:", path, err)
		}
	}()

	rows, headers, err := ParseFile(path, ext)
	if err != nil {
		return 0, err
	}

	snapshots := make([]models.KpiSnapshot, 0, len(rows))
	for _, raw := range rows {
		snapshots = append(snapshots, buildSnapshot(raw))
	}

	count, err := s.snapshots.InsertBatch(snapshots)
	if err != nil {
		return 0, fmt.Errorf("insert snapshots: %w", err)
	}

	sourceColumns, _ := json.Marshal(headers)
	record := &models.UploadRecord{
		ID:            uuid.New(),
		Filename:      filename,
		RecordsCount:  count,
		Status:        StatusSuccess,
		SourceColumns: sourceColumns,
		UploadDate:    time.Now(),
	}
	if err := s.uploads.Create(record); err != nil {
		return 0, fmt.Errorf("record upload history: %w", err)
	}

	log.Printf("Processed %s: %d rows inserted", filename, count)
	return count, nil
}

func buildSnapshot(raw map[string]string) models.KpiSnapshot {
	normalized := make(map[string]string, len(raw))
	for k, v := range raw {
		normalized[NormalizeColumn(k)] = v
	}

	fecha := strings.TrimSpace(normalized["fecha"])
	if fecha == "" {
		fecha = time.Now().Format("2006-01-02")
	}

	return models.KpiSnapshot{
		ID:                  uuid.New(),
		Fecha:               fecha,
		FacturacionPlazo:    parseMetric(normalized["facturacion_plazo"]),
		TiempoFacturacion:   parseMetric(normalized["tiempo_facturacion"]),
		IntegracionSistemas: parseMetric(normalized["integracion_sistemas"]),
		CierreContable:      parseMetric(normalized["cierre_contable"]),
		Errores:             parseMetric(normalized["errores"]),
		Reportes:            parseMetric(normalized["reportes"]),
		Cobranza:            parseMetric(normalized["cobranza"]),
		ControlGastos:       parseMetric(normalized["control_gastos"]),
		Inventarios:         parseMetric(normalized["inventarios"]),
	}
}

// parseMetric coerces a raw cell to a float, nil when missing or non-numeric.
// A row is never rejected for bad metrics, only stored with gaps.
func parseMetric(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
