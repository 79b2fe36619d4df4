package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ShinzTer/phys-diary-sub000/core"
	"github.com/ShinzTer/phys-diary-sub000/core/group"
	"github.com/ShinzTer/phys-diary-sub000/core/period"
	"github.com/ShinzTer/phys-diary-sub000/core/sport"
	"github.com/ShinzTer/phys-diary-sub000/core/student"
)

var errPeriodRequired = errors.New("period is required")

type sportApi struct {
	s   *Server
	svc sport.Service
}

func registerSportAPI(g *echo.Group, s *Server) {
	api := sportApi{s: s, svc: s.deps.SportSvc}

	g.GET("/exercises", api.queryExercises)

	sg := g.Group("/sport-results")
	sg.GET("", api.query)
	sg.POST("", api.create)
	// GET takes a student ID, PUT and DELETE a result ID
	sg.GET("/:id", api.queryByStudent)
	sg.PUT("/:id", api.update)
	sg.DELETE("/:id", api.destroy, staffMiddleware())

	g.GET("/sport-results-period/:id", api.queryByPeriod)
}

func (api *sportApi) get(ctx echo.Context, write bool) (sport.SportResult, error) {
	id, err := paramID(ctx, "id")
	if err != nil {
		return sport.SportResult{}, err
	}
	r, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return sport.SportResult{}, notFoundOr(err, sport.ErrNotFound, "finding sport result by ID")
	}
	if err = api.s.checkStudentAccess(ctx, r.StudentID, write); err != nil {
		return sport.SportResult{}, err
	}
	return r, nil
}

func (api *sportApi) list(ctx echo.Context, filter *sport.QueryFilter) error {
	results, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying sport results")
	}
	if results == nil {
		results = []sport.SportResult{}
	}
	return ctx.JSON(http.StatusOK, results)
}

func (api *sportApi) create(ctx echo.Context) error {
	var data sport.NewSportResult
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSportResult")
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

	r, err := api.svc.Create(ctx.Request().Context(), data, createdBy)
	if err != nil {
		return errors.Wrap(err, "creating sport result")
	}
	return ctx.JSON(http.StatusCreated, r)
}

func (api *sportApi) query(ctx echo.Context) error {
	filter := new(sport.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []sport.SportResult{})
	}
	if err := api.s.restrictToOwn(ctx, &filter.StudentID); err != nil {
		return err
	}
	return api.list(ctx, filter)
}

func (api *sportApi) queryByStudent(ctx echo.Context) error {
	studentID, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.s.checkStudentAccess(ctx, studentID, false); err != nil {
		return err
	}
	if _, err = api.s.deps.StudentSvc.GetByID(ctx.Request().Context(), studentID); err != nil {
		return notFoundOr(err, student.ErrNotFound, "finding student by ID")
	}
	return api.list(ctx, &sport.QueryFilter{StudentID: studentID})
}

// queryByPeriod lists the results of a period; students only get their own.
func (api *sportApi) queryByPeriod(ctx echo.Context) error {
	periodID, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	if _, err = api.s.deps.PeriodSvc.GetByID(ctx.Request().Context(), periodID); err != nil {
		return notFoundOr(err, period.ErrNotFound, "finding period by ID")
	}

	filter := &sport.QueryFilter{PeriodID: periodID}
	if err = api.s.restrictToOwn(ctx, &filter.StudentID); err != nil {
		return err
	}
	return api.list(ctx, filter)
}

func (api *sportApi) update(ctx echo.Context) error {
	r, err := api.get(ctx, true)
	if err != nil {
		return err
	}

	var data sport.UpdateSportResult
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSportResult")
	}
	if err = data.Validate(api.s.deps.Validate); err != nil {
		return err
	}

	r, err = api.svc.Update(ctx.Request().Context(), r, data)
	if err != nil {
		return errors.Wrap(err, "updating sport result")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *sportApi) destroy(ctx echo.Context) error {
	r, err := api.get(ctx, true)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), r.ID); err != nil {
		return notFoundOr(err, sport.ErrNotFound, "deleting sport result")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *sportApi) queryExercises(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, sport.Catalog)
}

// Reports

type ReportResponse struct {
	StudentID int          `json:"student_id"`
	PeriodID  int          `json:"period_id"`
	Entries   sport.Report `json:"entries"`
	Total     int          `json:"total"`
}

func registerReportAPI(g *echo.Group, s *Server) {
	api := sportApi{s: s, svc: s.deps.SportSvc}

	rg := g.Group("/reports")
	rg.GET("/students/:id", api.studentReport)
	rg.GET("/students/:id/progress", api.studentProgress)
	rg.GET("/groups/:id", api.groupReport, staffMiddleware())
}

func requiredPeriod(ctx echo.Context) (int, error) {
	periodID, err := queryID(ctx, "period")
	if err != nil {
		return 0, err
	}
	if periodID == 0 {
		return 0, core.NewFieldError("period", errPeriodRequired)
	}
	return periodID, nil
}

// reportErr maps the unknown IDs of a report request to 404.
func reportErr(err error) error {
	switch errors.Cause(err) {
	case student.ErrNotFound, group.ErrNotFound, period.ErrNotFound:
		return errHttpNotFound
	}
	return errors.Wrap(err, "building report")
}

func (api *sportApi) studentReport(ctx echo.Context) error {
	studentID, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.s.checkStudentAccess(ctx, studentID, false); err != nil {
		return err
	}
	periodID, err := requiredPeriod(ctx)
	if err != nil {
		return err
	}

	report, err := api.svc.StudentReport(ctx.Request().Context(), studentID, periodID)
	if err != nil {
		return reportErr(err)
	}
	return ctx.JSON(http.StatusOK, ReportResponse{
		StudentID: studentID,
		PeriodID:  periodID,
		Entries:   report,
		Total:     report.Total(),
	})
}

func (api *sportApi) studentProgress(ctx echo.Context) error {
	studentID, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.s.checkStudentAccess(ctx, studentID, false); err != nil {
		return err
	}

	progress, err := api.svc.StudentProgress(ctx.Request().Context(), studentID)
	if err != nil {
		return reportErr(err)
	}
	if progress == nil {
		progress = []sport.PeriodReport{}
	}
	return ctx.JSON(http.StatusOK, progress)
}

func (api *sportApi) groupReport(ctx echo.Context) error {
	groupID, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	periodID, err := requiredPeriod(ctx)
	if err != nil {
		return err
	}

	reports, err := api.svc.GroupReport(ctx.Request().Context(), groupID, periodID)
	if err != nil {
		return reportErr(err)
	}
	if reports == nil {
		reports = []sport.StudentReport{}
	}
	return ctx.JSON(http.StatusOK, reports)
}
