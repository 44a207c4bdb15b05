package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"

	"github.com/723poil/concert-booking/internal/api"
	"github.com/723poil/concert-booking/internal/api/handler"
	custommw "github.com/723poil/concert-booking/internal/api/middleware"
	"github.com/723poil/concert-booking/internal/application"
	"github.com/723poil/concert-booking/internal/config"
	"github.com/723poil/concert-booking/internal/infrastructure/postgres"
	redisinfra "github.com/723poil/concert-booking/internal/infrastructure/redis"
)

var (
	testServer  *TestServer
	testDB      *sqlx.DB
	redisClient *goredis.Client
)

// TestServer はE2Eテスト用のサーバー
type TestServer struct {
	Echo *echo.Echo
}

// Request はHTTPリクエストを実行する
func (s *TestServer) Request(method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

// TestMain はE2Eテストのエントリポイント
// DB・Redisが起動していない環境では全テストをスキップする
func TestMain(m *testing.M) {
	cfg := config.Load()

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		os.Exit(0)
	}
	testDB = db

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "../migrations"
	}
	if err := postgres.RunMigrations(db.DB, migrationsPath); err != nil {
		db.Close()
		os.Exit(0)
	}

	var cache *redisinfra.AvailabilityCache
	redisClient = redisinfra.NewClient(&cfg.Redis)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := redisinfra.Ping(ctx, redisClient); err == nil {
		cache = redisinfra.NewAvailabilityCache(redisClient)
	}
	cancel()

	txManager := postgres.NewTxManager(db)
	seatRepo := postgres.NewSeatRepository(db)
	reservationRepo := postgres.NewReservationRepository(db)
	scheduleRepo := postgres.NewScheduleRepository(db)
	concertRepo := postgres.NewConcertRepository(db)

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

	healthHandler := handler.NewHealthHandler()
	concertHandler := handler.NewConcertHandler(concertService)
	scheduleHandler := handler.NewScheduleHandler(scheduleService)
	seatHandler := handler.NewSeatHandler(seatService)
	reservationHandler := handler.NewReservationHandler(reservationService)

	e := echo.New()
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	custommw.SetupMiddleware(e)

	e.GET("/health", healthHandler.Check)

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

	testServer = &TestServer{Echo: e}

	code := m.Run()

	cleanupTables()
	if redisClient != nil {
		redisClient.Close()
	}
	db.Close()

	os.Exit(code)
}

// cleanupTables はテーブルをクリーンアップする
func cleanupTables() {
	testDB.Exec("TRUNCATE TABLE reservations, seats, concert_schedules, concerts RESTART IDENTITY CASCADE")
}

// getTestServer は共有サーバーを取得する（テスト前にテーブルをクリーンアップ）
func getTestServer(t *testing.T) *TestServer {
	t.Helper()
	if testServer == nil {
		t.Skip("テスト環境が利用できません")
	}
	cleanupTables()
	if redisClient != nil {
		redisClient.FlushDB(context.Background())
	}
	return testServer
}
