package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"kpi-dashboard-backend/internal/config"
	handler "kpi-dashboard-backend/internal/handlers"
	"kpi-dashboard-backend/internal/repository"
	"kpi-dashboard-backend/internal/services/ingestion"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	snapshotRepo := repository.NewKpiSnapshotRepository(db)
	uploadRepo := repository.NewUploadRecordRepository(db)

	ingestionService := ingestion.NewService(snapshotRepo, uploadRepo)

	kpiHandler := handler.NewKpiHandler(snapshotRepo, uploadRepo, ingestionService, cfg)

	api := r.Group("/api")

	api.GET("/health", kpiHandler.Health)

	kpis := api.Group("/kpis")
	kpis.GET("/latest", kpiHandler.Latest)
	kpis.GET("/history", kpiHandler.History)

	api.POST("/upload", kpiHandler.Upload)
	api.GET("/uploads/history", kpiHandler.UploadsHistory)
}
