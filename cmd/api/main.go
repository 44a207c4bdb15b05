package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/723poil/concert-booking/internal/api"
	"github.com/723poil/concert-booking/internal/api/handler"
	custommw "github.com/723poil/concert-booking/internal/api/middleware"
	"github.com/723poil/concert-booking/internal/application"
	"github.com/723poil/concert-booking/internal/config"
	"github.com/723poil/concert-booking/internal/infrastructure/postgres"
	redisinfra "github.com/723poil/concert-booking/internal/infrastructure/redis"
	"github.com/723poil/concert-booking/internal/pkg/logger"
	"github.com/723poil/concert-booking/internal/pkg/metrics"
	"github.com/723poil/concert-booking/internal/worker"
)

func main() {
	cfg := config.Load()
	defer logger.Sync()

	m := metrics.Init()

	// PostgreSQL接続とマイグレーション
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("データベース接続エラー", zap.Error(err))
	}
	defer db.Close()

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}
	if err := postgres.RunMigrations(db.DB, migrationsPath); err != nil {
		logger.Fatal("マイグレーションエラー", zap.Error(err))
	}

	// Redis接続（失敗してもキャッシュなしで起動を続ける）
	var cache *redisinfra.AvailabilityCache
	redisClient := redisinfra.NewClient(&cfg.Redis)
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisinfra.Ping(pingCtx, redisClient); err != nil {
		logger.Warn("Redis接続エラー。空席数キャッシュなしで起動します", zap.Error(err))
	} else {
		cache = redisinfra.NewAvailabilityCache(redisClient)
		defer redisClient.Close()
	}
	pingCancel()

	// リポジトリ
	txManager := postgres.NewTxManager(db)
	seatRepo := postgres.NewSeatRepository(db)
	reservationRepo := postgres.NewReservationRepository(db)
	scheduleRepo := postgres.NewScheduleRepository(db)
	concertRepo := postgres.NewConcertRepository(db)

	// サービス
	var invalidator application.AvailabilityInvalidator
	var availabilityCache application.AvailabilityCache
	if cache != nil {
		invalidator = cache
		availabilityCache = cache
	}
	reservationService := application.NewReservationService(
		txManager, reservationRepo, seatRepo, scheduleRepo,
		invalidator, cfg.Reservation.HoldDuration, cfg.Reservation.ReaperBatchSize,
	)
	seatService := application.NewSeatService(seatRepo, scheduleRepo, availabilityCache)
	concertService := application.NewConcertService(concertRepo)
	scheduleService := application.NewScheduleService(scheduleRepo, concertRepo)

	// 期限切れ回収ワーカー
	reaperCtx, reaperCancel := context.WithCancel(context.Background())
	defer reaperCancel()
	reaper := worker.NewExpiryReaper(reservationService, cfg.Reservation.ReaperInterval, m)
	reaper.Start(reaperCtx)

	// Echoサーバー
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler

	custommw.SetupMiddleware(e)
	e.Use(custommw.PrometheusMiddleware(m))

	registerRoutes(e, concertService, scheduleService, seatService, reservationService)

	// サーバー起動
	go func() {
		addr := ":" + cfg.Server.Port
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	reaper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}

func registerRoutes(
	e *echo.Echo,
	concertService *application.ConcertService,
	scheduleService *application.ScheduleService,
	seatService *application.SeatService,
	reservationService *application.ReservationService,
) {
	healthHandler := handler.NewHealthHandler()
	concertHandler := handler.NewConcertHandler(concertService)
	scheduleHandler := handler.NewScheduleHandler(scheduleService)
	seatHandler := handler.NewSeatHandler(seatService)
	reservationHandler := handler.NewReservationHandler(reservationService)

	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), custommw.MetricsBasicAuth())

	v1 := e.Group("/api/v1")

	v1.POST("/concerts", concertHandler.Create)
	v1.GET("/concerts", concertHandler.List)
	v1.GET("/concerts/:id", concertHandler.GetByID)
	v1.PUT("/concerts/:id", concertHandler.Update)
	v1.DELETE("/concerts/:id", concertHandler.Delete)
	v1.GET("/concerts/:id/schedules", scheduleHandler.ListByConcert)

	v1.POST("/schedules", scheduleHandler.Create)
	v1.GET("/schedules/:id", scheduleHandler.GetByID)
	v1.POST("/schedules/:id/open", scheduleHandler.Open)
	v1.POST("/schedules/:id/close", scheduleHandler.Close)
	v1.GET("/schedules/:id/seats", seatHandler.GetBySchedule)
	v1.GET("/schedules/:id/seats/available", seatHandler.GetAvailable)
	v1.GET("/schedules/:id/seats/count", seatHandler.CountAvailable)

	v1.POST("/seats", seatHandler.Create)
	v1.POST("/seats/bulk", seatHandler.CreateBulk)
	v1.GET("/seats/:id", seatHandler.GetByID)

	v1.POST("/reservations", reservationHandler.Reserve)
	v1.GET("/reservations", reservationHandler.GetUserReservations)
	v1.GET("/reservations/:id", reservationHandler.GetByID)
	v1.POST("/reservations/:id/confirm", reservationHandler.Confirm)
	v1.POST("/reservations/:id/cancel", reservationHandler.Cancel)
}
