package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ShinzTer/phys-diary-sub000/core/fitness"
)

type fitnessApi struct {
	s   *Server
	svc fitness.Service
}

// Records are readable by staff and by the student they belong to.
// Students may only record and edit their own values; deletions are left to staff.
func registerFitnessAPI(g *echo.Group, s *Server) {
	api := fitnessApi{s: s, svc: s.deps.FitnessSvc}

	tg := g.Group("/tests")
	tg.GET("", api.queryTests)
	tg.POST("", api.createTest)
	tg.GET("/:id", api.retrieveTest)
	tg.PUT("/:id", api.updateTest)
	tg.DELETE("/:id", api.destroyTest, staffMiddleware())

	sg := g.Group("/samples")
	sg.GET("", api.queryStates)
	sg.POST("", api.createState)
	sg.GET("/:id", api.retrieveState)
	sg.PUT("/:id", api.updateState)
	sg.DELETE("/:id", api.destroyState, staffMiddleware())
}

// restrictToOwn narrows a student's listing to their own records.
func (s *Server) restrictToOwn(ctx echo.Context, studentID *int) error {
	st, isStudent, err := s.getContextStudent(ctx)
	if err != nil {
		return err
	}
	if isStudent {
		*studentID = st.ID
	}
	return nil
}

func contextUserID(ctx echo.Context) (string, error) {
	usr, err := getContextUser(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting context user")
	}
	return usr.ID, nil
}

// Tests

func (api *fitnessApi) getTest(ctx echo.Context, write bool) (fitness.PhysicalTest, error) {
	id, err := paramID(ctx, "id")
	if err != nil {
		return fitness.PhysicalTest{}, err
	}
	pt, err := api.svc.GetTest(ctx.Request().Context(), id)
	if err != nil {
		return fitness.PhysicalTest{}, notFoundOr(err, fitness.ErrTestNotFound, "finding physical test by ID")
	}
	if err = api.s.checkStudentAccess(ctx, pt.StudentID, write); err != nil {
		return fitness.PhysicalTest{}, err
	}
	return pt, nil
}

func (api *fitnessApi) createTest(ctx echo.Context) error {
	var data fitness.NewPhysicalTest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPhysicalTest")
	}
	if err := data.Validate(api.s.deps.Validate); err != nil {
		return err
	}
	if err := api.s.checkStudentAccess(ctx, data.StudentID, true); err != nil {
		return err
	}
	createdBy, err := contextUserID(ctx)
	if err != nil {
		return err
	}

	pt, err := api.svc.CreateTest(ctx.Request().Context(), data, createdBy)
	if err != nil {
		return errors.Wrap(err, "creating physical test")
	}
	return ctx.JSON(http.StatusCreated, pt)
}

func (api *fitnessApi) queryTests(ctx echo.Context) error {
	filter := new(fitness.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []fitness.PhysicalTest{})
	}
	if err := api.s.restrictToOwn(ctx, &filter.StudentID); err != nil {
		return err
	}

	tests, err := api.svc.QueryTests(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying physical tests")
	}
	if tests == nil {
		tests = []fitness.PhysicalTest{}
	}
	return ctx.JSON(http.StatusOK, tests)
}

func (api *fitnessApi) retrieveTest(ctx echo.Context) error {
	pt, err := api.getTest(ctx, false)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, pt)
}

func (api *fitnessApi) updateTest(ctx echo.Context) error {
	pt, err := api.getTest(ctx, true)
	if err != nil {
		return err
	}

	var data fitness.UpdatePhysicalTest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePhysicalTest")
	}
	if err = data.Validate(api.s.deps.Validate); err != nil {
		return err
	}

	pt, err = api.svc.UpdateTest(ctx.Request().Context(), pt, data)
	if err != nil {
		return errors.Wrap(err, "updating physical test")
	}
	return ctx.JSON(http.StatusOK, pt)
}

func (api *fitnessApi) destroyTest(ctx echo.Context) error {
	pt, err := api.getTest(ctx, true)
	if err != nil {
		return err
	}
	if err = api.svc.DeleteTest(ctx.Request().Context(), pt.ID); err != nil {
		return notFoundOr(err, fitness.ErrTestNotFound, "deleting physical test")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// States

func (api *fitnessApi) getState(ctx echo.Context, write bool) (fitness.PhysicalState, error) {
	id, err := paramID(ctx, "id")
	if err != nil {
		return fitness.PhysicalState{}, err
	}
	ps, err := api.svc.GetState(ctx.Request().Context(), id)
	if err != nil {
		return fitness.PhysicalState{}, notFoundOr(err, fitness.ErrStateNotFound, "finding physical state by ID")
	}
	if err = api.s.checkStudentAccess(ctx, ps.StudentID, write); err != nil {
		return fitness.PhysicalState{}, err
	}
	return ps, nil
}

func (api *fitnessApi) createState(ctx echo.Context) error {
	var data fitness.NewPhysicalState
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPhysicalState")
	}
	if err := data.Validate(api.s.deps.Validate); err != nil {
		return err
	}
	if err := api.s.checkStudentAccess(ctx, data.StudentID, true); err != nil {
		return err
	}
	createdBy, err := contextUserID(ctx)
	if err != nil {
		return err
	}

	ps, err := api.svc.CreateState(ctx.Request().Context(), data, createdBy)
	if err != nil {
		return errors.Wrap(err, "creating physical state")
	}
	return ctx.JSON(http.StatusCreated, ps)
}

func (api *fitnessApi) queryStates(ctx echo.Context) error {
	filter := new(fitness.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []fitness.PhysicalState{})
	}
	if err := api.s.restrictToOwn(ctx, &filter.StudentID); err != nil {
		return err
	}

	states, err := api.svc.QueryStates(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying physical states")
	}
	if states == nil {
		states = []fitness.PhysicalState{}
	}
	return ctx.JSON(http.StatusOK, states)
}

func (api *fitnessApi) retrieveState(ctx echo.Context) error {
	ps, err := api.getState(ctx, false)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ps)
}

func (api *fitnessApi) updateState(ctx echo.Context) error {
	ps, err := api.getState(ctx, true)
	if err != nil {
		return err
	}

	var data fitness.UpdatePhysicalState
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePhysicalState")
	}
	if err = data.Validate(api.s.deps.Validate); err != nil {
		return err
	}

	ps, err = api.svc.UpdateState(ctx.Request().Context(), ps, data)
	if err != nil {
		return errors.Wrap(err, "updating physical state")
	}
	return ctx.JSON(http.StatusOK, ps)
}

func (api *fitnessApi) destroyState(ctx echo.Context) error {
	ps, err := api.getState(ctx, true)
	if err != nil {
		return err
	}
	if err = api.svc.DeleteState(ctx.Request().Context(), ps.ID); err != nil {
		return notFoundOr(err, fitness.ErrStateNotFound, "deleting physical state")
	}
	return ctx.NoContent(http.StatusNoContent)
}
