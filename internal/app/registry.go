package app

import (
	"database/sql"

	"go-payroll/internal/approval"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/middleware"
	"go-payroll/internal/payprofile"
	"go-payroll/internal/rates"
	"go-payroll/internal/salary"
	"go-payroll/internal/snapshot"
	"go-payroll/internal/trend"
	"go-payroll/internal/workrecord"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()

	// --- Repositories ---
	rateRepo := rates.NewRepository(gormDB)
	payProfileRepo := payprofile.NewRepository(gormDB)
	workRecordRepo := workrecord.NewRepository(gormDB)
	snapshotRepo := snapshot.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	rateResolver := rates.NewResolver(rateRepo)
	payProfileService := payprofile.NewService(db, payProfileRepo)
	snapshotService := snapshot.NewService(snapshotRepo, logger)
	calculator := salary.NewCalculator(workRecordRepo, payProfileRepo, rateResolver, snapshotService, logger)
	approvalCoordinator := approval.NewCoordinator(db, snapshotRepo, outboxRepo, logger)

	var trendCache trend.Cache
	if rdb != nil {
		trendCache = trend.NewRedisCache(rdb)
	} else {
		trendCache = trend.NewMemoryCache()
	}
	trendAggregator := trend.NewAggregator(snapshotRepo, trendCache, logger)

	// --- Handlers ---
	rateHandler := rates.NewHandler(rateResolver)
	payProfileHandler := payprofile.NewHandler(payProfileService)
	salaryHandler := salary.NewHandler(calculator)
	snapshotHandler := snapshot.NewHandler(snapshotService, calculator)
	approvalHandler := approval.NewHandlerWithRedis(approvalCoordinator, rdb)
	trendHandler := trend.NewHandler(trendAggregator)

	// --- Routes ---
	router.Use(middleware.RequestID())
	router.Use(middleware.Actor())
	router.Use(middleware.RateLimitByIP(50, 100))

	api := router.Group("/api/v1")
	{
		rates.RegisterRoutes(api, rateHandler)
		payprofile.RegisterRoutes(api, payProfileHandler)
		salary.RegisterRoutes(api, salaryHandler)
		if rdb != nil {
			snapshot.RegisterRoutes(api, snapshotHandler, rdb)
			approval.RegisterRoutes(api, approvalHandler, rdb)
		} else {
			snapshot.RegisterRoutes(api, snapshotHandler)
			approval.RegisterRoutes(api, approvalHandler)
		}
		trend.RegisterRoutes(api, trendHandler)
	}

	return nil
}
