package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ShinzTer/phys-diary-sub000/core/student"
)

type studentApi struct {
	s   *Server
	svc student.Service
}

func registerStudentAPI(g *echo.Group, s *Server) {
	api := studentApi{s: s, svc: s.deps.StudentSvc}

	sg := g.Group("/students")
	sg.GET("", api.query, staffMiddleware())
	sg.POST("", api.create, adminMiddleware())
	sg.GET("/medical-groups", api.queryMedicalGroups)
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id", api.update, adminMiddleware())
	sg.DELETE("/:id", api.destroy, adminMiddleware())
}

func (api *studentApi) get(ctx echo.Context) (student.Student, error) {
	id, err := paramID(ctx, "id")
	if err != nil {
		return student.Student{}, err
	}
	st, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return student.Student{}, notFoundOr(err, student.ErrNotFound, "finding student by ID")
	}
	return st, nil
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.s.deps.Validate); err != nil {
		return err
	}

	st, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, st)
}

func (api *studentApi) query(ctx echo.Context) error {
	filter := new(student.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []student.Student{})
	}
	filter.Clean()

	students, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

// retrieve is open to staff and to the student themself.
func (api *studentApi) retrieve(ctx echo.Context) error {
	st, err := api.get(ctx)
	if err != nil {
		return err
	}
	if err = api.s.checkStudentAccess(ctx, st.ID, false); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *studentApi) update(ctx echo.Context) error {
	st, err := api.get(ctx)
	if err != nil {
		return err
	}

	var data student.UpdateStudent
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err = data.Validate(st, api.s.deps.Validate); err != nil {
		return err
	}

	st, err = api.svc.Update(ctx.Request().Context(), st, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	st, err := api.get(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), st.ID); err != nil {
		return notFoundOr(err, student.ErrNotFound, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) queryMedicalGroups(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, student.MedicalGroups)
}
