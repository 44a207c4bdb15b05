package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/723poil/concert-booking/internal/domain/concert"
	"github.com/723poil/concert-booking/internal/domain/reservation"
	"github.com/723poil/concert-booking/internal/domain/schedule"
	"github.com/723poil/concert-booking/internal/domain/seat"
)

// toHTTPError はドメインエラーをHTTPステータスへ対応付ける
//
//	404: 対象が存在しない
//	409: 競合（CAS敗北・売り切れ・終端状態への再操作）
//	410: 仮押さえ期限切れ
//	400: 入力の検証エラー
func toHTTPError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, seat.ErrSeatNotFound),
		errors.Is(err, reservation.ErrReservationNotFound),
		errors.Is(err, schedule.ErrScheduleNotFound),
		errors.Is(err, concert.ErrConcertNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())

	case errors.Is(err, reservation.ErrReservationExpired):
		return echo.NewHTTPError(http.StatusGone, err.Error())

	case errors.Is(err, seat.ErrOptimisticLockConflict),
		errors.Is(err, seat.ErrSeatNotAvailable),
		errors.Is(err, seat.ErrSeatAlreadyExists),
		errors.Is(err, reservation.ErrReservationAlreadyConfirmed),
		errors.Is(err, reservation.ErrReservationAlreadyCancelled),
		errors.Is(err, reservation.ErrReservationNotPending),
		errors.Is(err, schedule.ErrScheduleNotReservable),
		errors.Is(err, schedule.ErrScheduleNotUpcoming),
		errors.Is(err, schedule.ErrScheduleNotOpen):
		return echo.NewHTTPError(http.StatusConflict, err.Error())

	case errors.Is(err, seat.ErrScheduleIDRequired),
		errors.Is(err, seat.ErrSectionRequired),
		errors.Is(err, seat.ErrInvalidSeatPosition),
		errors.Is(err, seat.ErrInvalidGrade),
		errors.Is(err, seat.ErrInvalidPrice),
		errors.Is(err, reservation.ErrUserIDRequired),
		errors.Is(err, reservation.ErrSeatIDRequired),
		errors.Is(err, concert.ErrConcertNameRequired),
		errors.Is(err, schedule.ErrConcertIDRequired),
		errors.Is(err, schedule.ErrVenueRequired),
		errors.Is(err, schedule.ErrInvalidTotalSeats),
		errors.Is(err, schedule.ErrInvalidScheduleTime):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())

	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
