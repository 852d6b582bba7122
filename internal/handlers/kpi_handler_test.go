package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"kpi-dashboard-backend/internal/config"
	"kpi-dashboard-backend/internal/models"
	"kpi-dashboard-backend/internal/routes"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.KpiSnapshot{}, &models.UploadRecord{}))

	cfg := config.Config{
		MaxUploadSize: 10 << 20,
		TempUploadDir: t.TempDir(),
	}

	r := gin.New()
	routes.RegisterRoutes(r, db, cfg)
	return r, db
}

func seedSnapshot(t *testing.T, db *gorm.DB, fecha string, createdAt time.Time) {
	t.Helper()

	v := 75.0
	snap := models.KpiSnapshot{
		ID:        uuid.New(),
		Fecha:     fecha,
		Cobranza:  &v,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(&snap).Error)
}

func doRequest(r *gin.Engine, method, target string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func multipartFile(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestLatest_EmptyStoreReturnsDefaults(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(r, http.MethodGet, "/api/kpis/latest", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]float64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))

	assert.Equal(t, map[string]float64{
		"facturacion_plazo":    100,
		"tiempo_facturacion":   100,
		"integracion_sistemas": 80,
		"cierre_contable":      80,
		"errores":              80,
		"reportes":             80,
		"cobranza":             80,
		"control_gastos":       80,
		"inventarios":          100,
	}, got)
}

func TestLatest_ReturnsNewestSnapshot(t *testing.T) {
	r, db := setupRouter(t)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	seedSnapshot(t, db, "2024-01-01", base)
	seedSnapshot(t, db, "2024-01-02", base.Add(time.Hour))

	w := doRequest(r, http.MethodGet, "/api/kpis/latest", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var got models.KpiSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "2024-01-02", got.Fecha)
	require.NotNil(t, got.Cobranza)
	assert.Equal(t, 75.0, *got.Cobranza)
}

func TestHistory_LimitAndOrder(t *testing.T) {
	r, db := setupRouter(t)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, fecha := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		seedSnapshot(t, db, fecha, base.Add(time.Duration(i)*time.Hour))
	}

	w := doRequest(r, http.MethodGet, "/api/kpis/history?limit=2", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var got []models.KpiSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))

	// The two most recent, reordered oldest-first
	require.Len(t, got, 2)
	assert.Equal(t, "2024-01-02", got[0].Fecha)
	assert.Equal(t, "2024-01-03", got[1].Fecha)
}

func TestHistory_EmptyStore(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(r, http.MethodGet, "/api/kpis/history", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestUpload_NoFile(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(r, http.MethodPost, "/api/upload", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpload_CSV(t *testing.T) {
	r, db := setupRouter(t)

	body, contentType := multipartFile(t, "enero.csv",
		"Fecha,Facturación_Plazo,Errores\n"+
			"2024-01-01,95.5,2\n"+
			"2024-01-02,90,3\n")

	w := doRequest(r, http.MethodPost, "/api/upload", body, contentType)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message          string `json:"message"`
		RecordsProcessed int    `json:"recordsProcessed"`
		Filename         string `json:"filename"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.RecordsProcessed)
	assert.Equal(t, "enero.csv", resp.Filename)
	assert.NotEmpty(t, resp.Message)

	var snapshots int64
	require.NoError(t, db.Model(&models.KpiSnapshot{}).Count(&snapshots).Error)
	assert.EqualValues(t, 2, snapshots)
}

func TestUpload_UnsupportedExtension(t *testing.T) {
	r, db := setupRouter(t)

	body, contentType := multipartFile(t, "notas.txt", "Fecha\n2024-01-01\n")

	w := doRequest(r, http.MethodPost, "/api/upload", body, contentType)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported")

	var records int64
	require.NoError(t, db.Model(&models.UploadRecord{}).Count(&records).Error)
	assert.Zero(t, records)
}

func TestUpload_FileTooLarge(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.KpiSnapshot{}, &models.UploadRecord{}))

	cfg := config.Config{MaxUploadSize: 16, TempUploadDir: t.TempDir()}
	r := gin.New()
	routes.RegisterRoutes(r, db, cfg)

	body, contentType := multipartFile(t, "enero.csv", "Fecha,Errores\n2024-01-01,2\n")

	w := doRequest(r, http.MethodPost, "/api/upload", body, contentType)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadsHistory(t *testing.T) {
	r, _ := setupRouter(t)

	content := "Fecha,Errores\n2024-01-01,2\n"
	for i := 0; i < 2; i++ {
		body, contentType := multipartFile(t, "mes.csv", content)
		w := doRequest(r, http.MethodPost, "/api/upload", body, contentType)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doRequest(r, http.MethodGet, "/api/uploads/history", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var records []models.UploadRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))

	// Two independent uploads of the same file, no deduplication
	require.Len(t, records, 2)
	for _, record := range records {
		assert.Equal(t, "mes.csv", record.Filename)
		assert.Equal(t, 1, record.RecordsCount)
		assert.Equal(t, "success", record.Status)
	}
}

func TestHealth(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(r, http.MethodGet, "/api/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
		Database  string `json:"database"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "connected", resp.Database)

	_, err := time.Parse(time.RFC3339, resp.Timestamp)
	assert.NoError(t, err)
}
