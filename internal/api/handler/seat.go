package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/723poil/concert-booking/internal/application"
	"github.com/723poil/concert-booking/internal/domain/seat"
)

// SeatHandler は座席APIのハンドラー
type SeatHandler struct {
	service SeatServiceInterface
}

// NewSeatHandler はSeatHandlerを作成する
func NewSeatHandler(s SeatServiceInterface) *SeatHandler {
	return &SeatHandler{service: s}
}

// CreateSeatRequest は座席作成リクエスト
type CreateSeatRequest struct {
	ScheduleID string `json:"schedule_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	Section    string `json:"section" validate:"required" example:"A"`
	RowNumber  int    `json:"row_number" validate:"required,min=1" example:"1"`
	SeatNumber int    `json:"seat_number" validate:"required,min=1" example:"12"`
	Grade      string `json:"grade" validate:"required,oneof=VIP R S A" example:"S"`
	Price      int    `json:"price" validate:"min=0" example:"45000"`
}

// CreateBulkSeatsRequest はセクション単位の座席一括作成リクエスト
type CreateBulkSeatsRequest struct {
	ScheduleID  string `json:"schedule_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	Section     string `json:"section" validate:"required" example:"A"`
	Rows        int    `json:"rows" validate:"required,min=1" example:"10"`
	SeatsPerRow int    `json:"seats_per_row" validate:"required,min=1" example:"20"`
	Grade       string `json:"grade" validate:"required,oneof=VIP R S A" example:"S"`
	Price       int    `json:"price" validate:"min=0" example:"45000"`
}

// SeatResponse は座席レスポンス
type SeatResponse struct {
	ID         string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	ScheduleID string    `json:"schedule_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Section    string    `json:"section" example:"A"`
	RowNumber  int       `json:"row_number" example:"1"`
	SeatNumber int       `json:"seat_number" example:"12"`
	Grade      string    `json:"grade" example:"S"`
	Price      int       `json:"price" example:"45000"`
	Status     string    `json:"status" example:"AVAILABLE"`
	Version    int       `json:"version" example:"0"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AvailableCountResponse は空席数レスポンス
type AvailableCountResponse struct {
	ScheduleID     string `json:"schedule_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	AvailableSeats int    `json:"available_seats" example:"123"`
}

func toSeatResponse(s *seat.Seat) SeatResponse {
	return SeatResponse{
		ID:         s.ID,
		ScheduleID: s.ScheduleID,
		Section:    s.Section,
		RowNumber:  s.RowNumber,
		SeatNumber: s.SeatNumber,
		Grade:      string(s.Grade),
		Price:      s.Price,
		Status:     string(s.Status),
		Version:    s.Version,
		UpdatedAt:  s.UpdatedAt,
	}
}

func toSeatResponses(seats []*seat.Seat) []SeatResponse {
	resp := make([]SeatResponse, len(seats))
	for i, s := range seats {
		resp[i] = toSeatResponse(s)
	}
	return resp
}

// Create godoc
// @Summary 座席を作成
// @Description スケジュールに座席を1つ追加します
// @Tags seats
// @Accept json
// @Produce json
// @Param request body CreateSeatRequest true "座席情報"
// @Success 201 {object} SeatResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "同じ位置の座席が既に存在"
// @Router /seats [post]
func (h *SeatHandler) Create(c echo.Context) error {
	var req CreateSeatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	s, err := h.service.CreateSeat(c.Request().Context(), application.CreateSeatInput{
		ScheduleID: req.ScheduleID,
		Section:    req.Section,
		RowNumber:  req.RowNumber,
		SeatNumber: req.SeatNumber,
		Grade:      req.Grade,
		Price:      req.Price,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toSeatResponse(s))
}

// CreateBulk godoc
// @Summary 座席を一括作成
// @Description セクションの座席を列×席数のグリッドで一括作成します
// @Tags seats
// @Accept json
// @Produce json
// @Param request body CreateBulkSeatsRequest true "一括作成情報"
// @Success 201 {array} SeatResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /seats/bulk [post]
func (h *SeatHandler) CreateBulk(c echo.Context) error {
	var req CreateBulkSeatsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	seats, err := h.service.CreateBulkSeats(c.Request().Context(), application.CreateBulkSeatsInput{
		ScheduleID:  req.ScheduleID,
		Section:     req.Section,
		Rows:        req.Rows,
		SeatsPerRow: req.SeatsPerRow,
		Grade:       req.Grade,
		Price:       req.Price,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toSeatResponses(seats))
}

// GetByID godoc
// @Summary 座席を取得
// @Description 指定IDの座席を取得します
// @Tags seats
// @Produce json
// @Param id path string true "座席ID"
// @Success 200 {object} SeatResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /seats/{id} [get]
func (h *SeatHandler) GetByID(c echo.Context) error {
	s, err := h.service.GetSeat(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toSeatResponse(s))
}

// GetBySchedule godoc
// @Summary スケジュールの座席一覧を取得
// @Description スケジュールの全座席を表示順で取得します
// @Tags seats
// @Produce json
// @Param id path string true "スケジュールID"
// @Success 200 {array} SeatResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /schedules/{id}/seats [get]
func (h *SeatHandler) GetBySchedule(c echo.Context) error {
	seats, err := h.service.GetSeatsBySchedule(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toSeatResponses(seats))
}

// GetAvailable godoc
// @Summary 空席一覧を取得
// @Description 予約可能な座席をグレード上位順 → セクション順 → 座席番号順で取得します
// @Tags seats
// @Produce json
// @Param id path string true "スケジュールID"
// @Success 200 {array} SeatResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /schedules/{id}/seats/available [get]
func (h *SeatHandler) GetAvailable(c echo.Context) error {
	seats, err := h.service.GetAvailableSeats(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toSeatResponses(seats))
}

// CountAvailable godoc
// @Summary 空席数を取得
// @Description スケジュールの空席数を取得します（数秒の遅延を許容するキャッシュ値）
// @Tags seats
// @Produce json
// @Param id path string true "スケジュールID"
// @Success 200 {object} AvailableCountResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /schedules/{id}/seats/count [get]
func (h *SeatHandler) CountAvailable(c echo.Context) error {
	scheduleID := c.Param("id")
	count, err := h.service.CountAvailableSeats(c.Request().Context(), scheduleID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, AvailableCountResponse{
		ScheduleID:     scheduleID,
		AvailableSeats: count,
	})
}
