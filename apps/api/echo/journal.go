package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ShinzTer/phys-diary-sub000/core/journal"
)

type journalApi struct {
	s   *Server
	svc journal.Service
}

func registerJournalAPI(g *echo.Group, s *Server) {
	api := journalApi{s: s, svc: s.deps.JournalSvc}

	rg := g.Group("/results")
	rg.GET("", api.query)
	rg.POST("", api.create)
	rg.GET("/:id", api.retrieve)
	rg.DELETE("/:id", api.destroy, staffMiddleware())
}

func (api *journalApi) get(ctx echo.Context, write bool) (journal.Result, error) {
	id, err := paramID(ctx, "id")
	if err != nil {
		return journal.Result{}, err
	}
	r, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return journal.Result{}, notFoundOr(err, journal.ErrNotFound, "finding result by ID")
	}
	if err = api.s.checkStudentAccess(ctx, r.StudentID, write); err != nil {
		return journal.Result{}, err
	}
	return r, nil
}

func (api *journalApi) create(ctx echo.Context) error {
	var data journal.NewResult
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResult")
	}
	if err := data.Validate(api.s.deps.Validate); err != nil {
		return err
	}
	if err := api.s.checkStudentAccess(ctx, data.StudentID, true); err != nil {
		return err
	}

	r, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating result")
	}
	return ctx.JSON(http.StatusCreated, r)
}

func (api *journalApi) query(ctx echo.Context) error {
	filter := new(journal.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []journal.Result{})
	}
	if err := api.s.restrictToOwn(ctx, &filter.StudentID); err != nil {
		return err
	}

	results, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying results")
	}
	if results == nil {
		results = []journal.Result{}
	}
	return ctx.JSON(http.StatusOK, results)
}

func (api *journalApi) retrieve(ctx echo.Context) error {
	r, err := api.get(ctx, false)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *journalApi) destroy(ctx echo.Context) error {
	r, err := api.get(ctx, true)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), r.ID); err != nil {
		return notFoundOr(err, journal.ErrNotFound, "deleting result")
	}
	return ctx.NoContent(http.StatusNoContent)
}
