package handler

import (
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"kpi-dashboard-backend/internal/config"
	"kpi-dashboard-backend/internal/models"
	"kpi-dashboard-backend/internal/repository"
	"kpi-dashboard-backend/internal/services/ingestion"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultHistoryLimit = 15

// defaultKpis is served when no snapshot has ever been stored. It is a
// display default only and never written to the store.
var defaultKpis = gin.H{
	"facturacion_plazo":    100,
	"tiempo_facturacion":   100,
	"integracion_sistemas": 80,
	"cierre_contable":      80,
	"errores":              80,
	"reportes":             80,
	"cobranza":             80,
	"control_gastos":       80,
	"inventarios":          100,
}

type KpiHandler struct {
	snapshots *repository.KpiSnapshotRepository
	uploads   *repository.UploadRecordRepository
	ingestion *ingestion.Service
	cfg       config.Config
}

func NewKpiHandler(
	snapshots *repository.KpiSnapshotRepository,
	uploads *repository.UploadRecordRepository,
	ingestionService *ingestion.Service,
	cfg config.Config,
) *KpiHandler {
	return &KpiHandler{
		snapshots: snapshots,
		uploads:   uploads,
		ingestion: ingestionService,
		cfg:       cfg,
	}
}

func (h *KpiHandler) Latest(c *gin.Context) {
	snapshot, err := h.snapshots.Latest()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, defaultKpis)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h *KpiHandler) History(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultHistoryLimit)))
	if err != nil || limit <= 0 {
		limit = defaultHistoryLimit
	}

	snapshots, err := h.snapshots.Recent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Fetched newest-first; the dashboard charts want oldest-first
	for i, j := 0, len(snapshots)-1; i < j; i, j = i+1, j-1 {
		snapshots[i], snapshots[j] = snapshots[j], snapshots[i]
	}
	if snapshots == nil {
		snapshots = []models.KpiSnapshot{}
	}

	c.JSON(http.StatusOK, snapshots)
}

func (h *KpiHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	if file.Size > h.cfg.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return
	}

	log.Println("Received file:", file.Filename, "size:", file.Size)

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Filename)), ".")
	tmpPath := filepath.Join(h.cfg.TempUploadDir, uuid.New().String()+"."+ext)
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store uploaded file"})
		return
	}

	count, err := h.ingestion.Process(tmpPath, file.Filename, ext)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          "file processed successfully",
		"recordsProcessed": count,
		"filename":         file.Filename,
	})
}

func (h *KpiHandler) UploadsHistory(c *gin.Context) {
	records, err := h.uploads.Recent(10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if records == nil {
		records = []models.UploadRecord{}
	}
	c.JSON(http.StatusOK, records)
}

func (h *KpiHandler) Health(c *gin.Context) {
	database := "connected"
	sqlDB, err := h.snapshots.DB().DB()
	if err != nil || sqlDB.Ping() != nil {
		database = "disconnected"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"database":  database,
	})
}
