package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/723poil/concert-booking/internal/application"
	"github.com/723poil/concert-booking/internal/domain/schedule"
)

// ScheduleHandler は公演スケジュールAPIのハンドラー
type ScheduleHandler struct {
	service ScheduleServiceInterface
}

// NewScheduleHandler はScheduleHandlerを作成する
func NewScheduleHandler(s ScheduleServiceInterface) *ScheduleHandler {
	return &ScheduleHandler{service: s}
}

// CreateScheduleRequest はスケジュール作成リクエスト
type CreateScheduleRequest struct {
	ConcertID  string    `json:"concert_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	Venue      string    `json:"venue" validate:"required" example:"東京ドーム"`
	StartAt    time.Time `json:"start_at" validate:"required"`
	EndAt      time.Time `json:"end_at" validate:"required"`
	TotalSeats int       `json:"total_seats" validate:"required,min=1" example:"500"`
}

// ScheduleResponse はスケジュールレスポンス
type ScheduleResponse struct {
	ID         string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	ConcertID  string    `json:"concert_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Venue      string    `json:"venue" example:"東京ドーム"`
	StartAt    time.Time `json:"start_at"`
	EndAt      time.Time `json:"end_at"`
	TotalSeats int       `json:"total_seats" example:"500"`
	Status     string    `json:"status" example:"OPEN"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toScheduleResponse(s *schedule.Schedule) ScheduleResponse {
	return ScheduleResponse{
		ID:         s.ID,
		ConcertID:  s.ConcertID,
		Venue:      s.Venue,
		StartAt:    s.StartAt,
		EndAt:      s.EndAt,
		TotalSeats: s.TotalSeats,
		Status:     string(s.Status),
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

// Create godoc
// @Summary スケジュールを作成
// @Description コンサートに公演スケジュールを追加します（作成直後は受付前）
// @Tags schedules
// @Accept json
// @Produce json
// @Param request body CreateScheduleRequest true "スケジュール情報"
// @Success 201 {object} ScheduleResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /schedules [post]
func (h *ScheduleHandler) Create(c echo.Context) error {
	var req CreateScheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sch, err := h.service.CreateSchedule(c.Request().Context(), application.CreateScheduleInput{
		ConcertID:  req.ConcertID,
		Venue:      req.Venue,
		StartAt:    req.StartAt,
		EndAt:      req.EndAt,
		TotalSeats: req.TotalSeats,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toScheduleResponse(sch))
}

// GetByID godoc
// @Summary スケジュールを取得
// @Tags schedules
// @Produce json
// @Param id path string true "スケジュールID"
// @Success 200 {object} ScheduleResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /schedules/{id} [get]
func (h *ScheduleHandler) GetByID(c echo.Context) error {
	sch, err := h.service.GetSchedule(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toScheduleResponse(sch))
}

// ListByConcert godoc
// @Summary コンサートのスケジュール一覧を取得
// @Tags schedules
// @Produce json
// @Param id path string true "コンサートID"
// @Success 200 {array} ScheduleResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /concerts/{id}/schedules [get]
func (h *ScheduleHandler) ListByConcert(c echo.Context) error {
	schedules, err := h.service.ListSchedulesByConcert(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	resp := make([]ScheduleResponse, len(schedules))
	for i, sch := range schedules {
		resp[i] = toScheduleResponse(sch)
	}
	return c.JSON(http.StatusOK, resp)
}

// Open godoc
// @Summary 予約受付を開始
// @Tags schedules
// @Produce json
// @Param id path string true "スケジュールID"
// @Success 200 {object} ScheduleResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "受付前以外の状態"
// @Router /schedules/{id}/open [post]
func (h *ScheduleHandler) Open(c echo.Context) error {
	sch, err := h.service.OpenSchedule(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toScheduleResponse(sch))
}

// Close godoc
// @Summary 予約受付を終了
// @Tags schedules
// @Produce json
// @Param id path string true "スケジュールID"
// @Success 200 {object} ScheduleResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "受付中以外の状態"
// @Router /schedules/{id}/close [post]
func (h *ScheduleHandler) Close(c echo.Context) error {
	sch, err := h.service.CloseSchedule(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toScheduleResponse(sch))
}
