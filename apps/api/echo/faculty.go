package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ShinzTer/phys-diary-sub000/core/faculty"
)

type facultyApi struct {
	s   *Server
	svc faculty.Service
}

func registerFacultyAPI(g *echo.Group, s *Server) {
	api := facultyApi{s: s, svc: s.deps.FacultySvc}

	fg := g.Group("/faculties")
	fg.GET("", api.query)
	fg.POST("", api.create, adminMiddleware())
	fg.GET("/:id", api.retrieve)
	fg.PUT("/:id", api.update, adminMiddleware())
	fg.DELETE("/:id", api.destroy, adminMiddleware())
}

func (api *facultyApi) get(ctx echo.Context) (faculty.Faculty, error) {
	id, err := paramID(ctx, "id")
	if err != nil {
		return faculty.Faculty{}, err
	}
	fac, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return faculty.Faculty{}, notFoundOr(err, faculty.ErrNotFound, "finding faculty by ID")
	}
	return fac, nil
}

func (api *facultyApi) create(ctx echo.Context) error {
	var data faculty.NewFaculty
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFaculty")
	}
	reqCtx := ctx.Request().Context()
	if err := data.Validate(reqCtx, api.s.deps.Validate, api.svc); err != nil {
		return err
	}

	fac, err := api.svc.Create(reqCtx, data)
	if err != nil {
		return errors.Wrap(err, "creating faculty")
	}
	return ctx.JSON(http.StatusCreated, fac)
}

func (api *facultyApi) query(ctx echo.Context) error {
	filter := new(faculty.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []faculty.Faculty{})
	}
	filter.Clean()

	facs, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying faculties")
	}
	if facs == nil {
		facs = []faculty.Faculty{}
	}
	return ctx.JSON(http.StatusOK, facs)
}

func (api *facultyApi) retrieve(ctx echo.Context) error {
	fac, err := api.get(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, fac)
}

func (api *facultyApi) update(ctx echo.Context) error {
	fac, err := api.get(ctx)
	if err != nil {
		return err
	}

	var data faculty.UpdateFaculty
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateFaculty")
	}
	reqCtx := ctx.Request().Context()
	if err = data.Validate(reqCtx, fac, api.s.deps.Validate, api.svc); err != nil {
		return err
	}

	fac, err = api.svc.Update(reqCtx, fac, data)
	if err != nil {
		return errors.Wrap(err, "updating faculty")
	}
	return ctx.JSON(http.StatusOK, fac)
}

func (api *facultyApi) destroy(ctx echo.Context) error {
	fac, err := api.get(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), fac.ID); err != nil {
		return notFoundOr(err, faculty.ErrNotFound, "deleting faculty")
	}
	return ctx.NoContent(http.StatusNoContent)
}
