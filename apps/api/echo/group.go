package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ShinzTer/phys-diary-sub000/core/group"
)

type groupApi struct {
	s   *Server
	svc group.Service
}

func registerGroupAPI(g *echo.Group, s *Server) {
	api := groupApi{s: s, svc: s.deps.GroupSvc}

	gg := g.Group("/groups", staffMiddleware())
	gg.GET("", api.query)
	gg.POST("", api.create, adminMiddleware())
	gg.GET("/:id", api.retrieve)
	gg.PUT("/:id", api.update, adminMiddleware())
	gg.DELETE("/:id", api.destroy, adminMiddleware())
}

func (api *groupApi) get(ctx echo.Context) (group.Group, error) {
	id, err := paramID(ctx, "id")
	if err != nil {
		return group.Group{}, err
	}
	grp, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return group.Group{}, notFoundOr(err, group.ErrNotFound, "finding group by ID")
	}
	return grp, nil
}

func (api *groupApi) create(ctx echo.Context) error {
	var data group.NewGroup
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGroup")
	}
	reqCtx := ctx.Request().Context()
	if err := data.Validate(reqCtx, api.s.deps.Validate, api.svc); err != nil {
		return err
	}

	grp, err := api.svc.Create(reqCtx, data)
	if err != nil {
		return errors.Wrap(err, "creating group")
	}
	return ctx.JSON(http.StatusCreated, grp)
}

func (api *groupApi) query(ctx echo.Context) error {
	filter := new(group.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []group.Group{})
	}
	filter.Clean()

	groups, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying groups")
	}
	if groups == nil {
		groups = []group.Group{}
	}
	return ctx.JSON(http.StatusOK, groups)
}

func (api *groupApi) retrieve(ctx echo.Context) error {
	grp, err := api.get(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, grp)
}

func (api *groupApi) update(ctx echo.Context) error {
	grp, err := api.get(ctx)
	if err != nil {
		return err
	}

	var data group.UpdateGroup
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateGroup")
	}
	reqCtx := ctx.Request().Context()
	if err = data.Validate(reqCtx, grp, api.s.deps.Validate, api.svc); err != nil {
		return err
	}

	grp, err = api.svc.Update(reqCtx, grp, data)
	if err != nil {
		return errors.Wrap(err, "updating group")
	}
	return ctx.JSON(http.StatusOK, grp)
}

func (api *groupApi) destroy(ctx echo.Context) error {
	grp, err := api.get(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), grp.ID); err != nil {
		return notFoundOr(err, group.ErrNotFound, "deleting group")
	}
	return ctx.NoContent(http.StatusNoContent)
}
