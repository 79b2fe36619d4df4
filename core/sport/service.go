package sport

import (
	"context"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/ShinzTer/phys-diary-sub000/core"
	"github.com/ShinzTer/phys-diary-sub000/core/fitness"
	"github.com/ShinzTer/phys-diary-sub000/core/group"
	"github.com/ShinzTer/phys-diary-sub000/core/period"
	"github.com/ShinzTer/phys-diary-sub000/core/student"
)

var (
	// errors
	ErrNotFound = errors.New("sport result not found")

	NowFunc = core.NowUTC // mockable
)

type (
	Repository interface {
		CreateSportResult(ctx context.Context, r SportResult) (SportResult, error)
		// QuerySportResults lists results in creation order.
		QuerySportResults(ctx context.Context, filter *QueryFilter) ([]SportResult, error)
		GetSportResult(ctx context.Context, id int) (SportResult, error)
		UpdateSportResult(ctx context.Context, r SportResult) (SportResult, error)
		DeleteSportResult(ctx context.Context, id int) error
	}

	Service interface {
		Create(ctx context.Context, nr NewSportResult, createdBy string) (SportResult, error)
		Query(ctx context.Context, filter *QueryFilter) ([]SportResult, error)
		GetByID(ctx context.Context, id int) (SportResult, error)
		Update(ctx context.Context, orig SportResult, ur UpdateSportResult) (SportResult, error)
		Delete(ctx context.Context, id int) error

		StudentReport(ctx context.Context, studentID, periodID int) (Report, error)
		StudentProgress(ctx context.Context, studentID int) ([]PeriodReport, error)
		GroupReport(ctx context.Context, groupID, periodID int) ([]StudentReport, error)
	}

	service struct {
		repo      Repository
		stdSvc    student.Service
		grpSvc    group.Service
		periodSvc period.Service
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, stdSvc student.Service, grpSvc group.Service, periodSvc period.Service) Service {
	return &service{repo: repo, stdSvc: stdSvc, grpSvc: grpSvc, periodSvc: periodSvc}
}

func (svc *service) Create(ctx context.Context, nr NewSportResult, createdBy string) (SportResult, error) {
	if err := fitness.CheckRefs(ctx, svc.stdSvc, svc.periodSvc, nr.StudentID, nr.PeriodID); err != nil {
		return SportResult{}, err
	}

	now := NowFunc()
	r := SportResult{
		StudentID: nr.StudentID,
		PeriodID:  nr.PeriodID,
		CreatedBy: null.NewString(createdBy, createdBy != ""),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := copier.Copy(&r, &nr.Values); err != nil {
		return SportResult{}, errors.Wrap(err, "copying sport values")
	}
	return svc.repo.CreateSportResult(ctx, r)
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter) ([]SportResult, error) {
	if filter == nil {
		filter = new(QueryFilter)
	}
	return svc.repo.QuerySportResults(ctx, filter)
}

func (svc *service) GetByID(ctx context.Context, id int) (SportResult, error) {
	return svc.repo.GetSportResult(ctx, id)
}

func (svc *service) Update(ctx context.Context, orig SportResult, ur UpdateSportResult) (SportResult, error) {
	r := orig
	if err := copier.Copy(&r, &ur.Values); err != nil {
		return SportResult{}, errors.Wrap(err, "copying sport values")
	}
	r.UpdatedAt = NowFunc()
	return svc.repo.UpdateSportResult(ctx, r)
}

func (svc *service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteSportResult(ctx, id)
}

// StudentReport fails with student.ErrNotFound or period.ErrNotFound for unknown IDs.
func (svc *service) StudentReport(ctx context.Context, studentID, periodID int) (Report, error) {
	if _, err := svc.stdSvc.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	if _, err := svc.periodSvc.GetByID(ctx, periodID); err != nil {
		return nil, err
	}

	results, err := svc.repo.QuerySportResults(ctx, &QueryFilter{StudentID: studentID})
	if err != nil {
		return nil, errors.Wrap(err, "querying sport results")
	}
	return BuildReport(studentID, periodID, results), nil
}

func (svc *service) StudentProgress(ctx context.Context, studentID int) ([]PeriodReport, error) {
	if _, err := svc.stdSvc.GetByID(ctx, studentID); err != nil {
		return nil, err
	}

	results, err := svc.repo.QuerySportResults(ctx, &QueryFilter{StudentID: studentID})
	if err != nil {
		return nil, errors.Wrap(err, "querying sport results")
	}
	periods, err := svc.periodSvc.Query(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying periods")
	}
	return BuildProgress(studentID, results, periods), nil
}

// GroupReport fails with group.ErrNotFound or period.ErrNotFound for unknown IDs.
func (svc *service) GroupReport(ctx context.Context, groupID, periodID int) ([]StudentReport, error) {
	if _, err := svc.grpSvc.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	if _, err := svc.periodSvc.GetByID(ctx, periodID); err != nil {
		return nil, err
	}

	students, err := svc.stdSvc.Query(ctx, &student.QueryFilter{GroupID: groupID})
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	results, err := svc.repo.QuerySportResults(ctx, &QueryFilter{PeriodID: periodID})
	if err != nil {
		return nil, errors.Wrap(err, "querying sport results")
	}
	return BuildGroupReport(periodID, students, results), nil
}
