package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/723poil/concert-booking/internal/application"
	"github.com/723poil/concert-booking/internal/domain/concert"
)

// ConcertHandler はコンサートAPIのハンドラー
type ConcertHandler struct {
	service ConcertServiceInterface
}

// NewConcertHandler はConcertHandlerを作成する
func NewConcertHandler(s ConcertServiceInterface) *ConcertHandler {
	return &ConcertHandler{service: s}
}

// CreateConcertRequest はコンサート作成リクエスト
type CreateConcertRequest struct {
	Name        string `json:"name" validate:"required" example:"夏フェス2026"`
	Description string `json:"description" example:"野外公演"`
}

// UpdateConcertRequest はコンサート更新リクエスト
type UpdateConcertRequest struct {
	Name        string `json:"name" validate:"required" example:"夏フェス2026"`
	Description string `json:"description" example:"野外公演"`
}

// ConcertResponse はコンサートレスポンス
type ConcertResponse struct {
	ID          string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name        string    `json:"name" example:"夏フェス2026"`
	Description string    `json:"description,omitempty" example:"野外公演"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toConcertResponse(c *concert.Concert) ConcertResponse {
	return ConcertResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// Create godoc
// @Summary コンサートを作成
// @Tags concerts
// @Accept json
// @Produce json
// @Param request body CreateConcertRequest true "コンサート情報"
// @Success 201 {object} ConcertResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /concerts [post]
func (h *ConcertHandler) Create(c echo.Context) error {
	var req CreateConcertRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := h.service.CreateConcert(c.Request().Context(), application.CreateConcertInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toConcertResponse(created))
}

// GetByID godoc
// @Summary コンサートを取得
// @Tags concerts
// @Produce json
// @Param id path string true "コンサートID"
// @Success 200 {object} ConcertResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /concerts/{id} [get]
func (h *ConcertHandler) GetByID(c echo.Context) error {
	got, err := h.service.GetConcert(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toConcertResponse(got))
}

// List godoc
// @Summary コンサート一覧を取得
// @Tags concerts
// @Produce json
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} ConcertResponse
// @Router /concerts [get]
func (h *ConcertHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	concerts, err := h.service.ListConcerts(c.Request().Context(), limit, offset)
	if err != nil {
		return toHTTPError(err)
	}
	resp := make([]ConcertResponse, len(concerts))
	for i, co := range concerts {
		resp[i] = toConcertResponse(co)
	}
	return c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary コンサートを更新
// @Tags concerts
// @Accept json
// @Produce json
// @Param id path string true "コンサートID"
// @Param request body UpdateConcertRequest true "更新情報"
// @Success 200 {object} ConcertResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /concerts/{id} [put]
func (h *ConcertHandler) Update(c echo.Context) error {
	var req UpdateConcertRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updated, err := h.service.UpdateConcert(c.Request().Context(), c.Param("id"), application.UpdateConcertInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toConcertResponse(updated))
}

// Delete godoc
// @Summary コンサートを削除
// @Tags concerts
// @Param id path string true "コンサートID"
// @Success 204
// @Failure 404 {object} api.ErrorResponse
// @Router /concerts/{id} [delete]
func (h *ConcertHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteConcert(c.Request().Context(), c.Param("id")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
