package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ShinzTer/phys-diary-sub000/core/period"
)

type periodApi struct {
	s   *Server
	svc period.Service
}

// Periods are immutable: there is no update nor delete endpoint.
func registerPeriodAPI(g *echo.Group, s *Server) {
	api := periodApi{s: s, svc: s.deps.PeriodSvc}

	pg := g.Group("/periods")
	pg.GET("", api.query)
	pg.POST("", api.create, adminMiddleware())
	pg.GET("/labels", api.queryLabels)
	pg.GET("/:id", api.retrieve)
}

func (api *periodApi) create(ctx echo.Context) error {
	var data period.NewPeriod
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPeriod")
	}
	if err := data.Validate(api.s.deps.Validate); err != nil {
		return err
	}

	p, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating period")
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *periodApi) query(ctx echo.Context) error {
	periods, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying periods")
	}
	if periods == nil {
		periods = []period.Period{}
	}
	return ctx.JSON(http.StatusOK, periods)
}

func (api *periodApi) retrieve(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	p, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return notFoundOr(err, period.ErrNotFound, "finding period by ID")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *periodApi) queryLabels(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, period.LabelOptions())
}
