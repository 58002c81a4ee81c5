package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Renato2024Valente/Buscativa2026/core/attendance"
)

type outreachApi struct {
	svc AttendanceService
}

func registerOutreachAPI(g *echo.Group, svc AttendanceService) {
	api := outreachApi{svc: svc}

	og := g.Group("/outreach")
	og.GET("", api.query)
	og.PUT("/:id", api.complete)

	g.GET("/classes", api.classes)
}

func (api *outreachApi) query(ctx echo.Context) error {
	filter, err := attendance.NewOutreachFilter(ctx.QueryParam("status"), ctx.QueryParam("class"), ctx.QueryParam("week_start"))
	if err != nil {
		return err
	}
	views, err := api.svc.ListOutreach(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "listing outreach cases")
	}
	return ctx.JSON(http.StatusOK, views)
}

func (api *outreachApi) complete(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	var data attendance.CompleteOutreach
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CompleteOutreach")
	}

	cs, err := api.svc.CompleteOutreach(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "completing outreach case")
	}
	return ctx.JSON(http.StatusOK, cs)
}

func (api *outreachApi) classes(ctx echo.Context) error {
	classes, err := api.svc.ListClasses(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing classes")
	}
	return ctx.JSON(http.StatusOK, classes)
}

type HealthResponse struct {
	OK   bool      `json:"ok"`
	Time time.Time `json:"time"`
}

func health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, HealthResponse{OK: true, Time: time.Now().UTC()})
}
