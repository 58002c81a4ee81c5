package echoapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Renato2024Valente/Buscativa2026/core/access"
	"github.com/Renato2024Valente/Buscativa2026/core/attendance"
)

// AttendanceService is the part of attendance.Service exposed over HTTP.
type AttendanceService interface {
	RecordAttendance(ctx context.Context, na attendance.NewAttendance) (attendance.RecordResult, error)
	DeleteAttendance(ctx context.Context, recordID int) error
	CompleteOutreach(ctx context.Context, caseID int, co attendance.CompleteOutreach) (attendance.CaseSummary, error)
	ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceView, error)
	ListOutreach(ctx context.Context, filter attendance.OutreachFilter) ([]attendance.OutreachView, error)
	ListClasses(ctx context.Context) ([]string, error)
}

var _ AttendanceService = (*attendance.Service)(nil)

type attendanceApi struct {
	svc  AttendanceService
	gate *access.Gate
}

func registerAttendanceAPI(g *echo.Group, session echo.MiddlewareFunc, svc AttendanceService, gate *access.Gate) {
	api := attendanceApi{svc: svc, gate: gate}

	ag := g.Group("/attendance", session)
	ag.GET("", api.query)
	ag.POST("", api.record)
	ag.DELETE("/:id", api.destroy)
}

func pathID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// Handlers

func (api *attendanceApi) query(ctx echo.Context) error {
	filter, err := attendance.NewAttendanceFilter(ctx.QueryParam("class"), ctx.QueryParam("week_start"))
	if err != nil {
		return err
	}
	views, err := api.svc.ListAttendance(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "listing attendance")
	}
	return ctx.JSON(http.StatusOK, views)
}

func (api *attendanceApi) record(ctx echo.Context) error {
	var data attendance.NewAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAttendance")
	}

	res, err := api.svc.RecordAttendance(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "recording attendance")
	}

	code := http.StatusOK
	if res.Created {
		code = http.StatusCreated
	}
	return ctx.JSON(code, res)
}

func (api *attendanceApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	// deleting requires the shared password again
	var data PasswordRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordRequest")
	}
	if err = api.gate.Check(data.Password); err != nil {
		return err
	}

	if err = api.svc.DeleteAttendance(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting attendance record")
	}
	return ctx.NoContent(http.StatusNoContent)
}
