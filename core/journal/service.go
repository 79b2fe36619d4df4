package journal

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/ShinzTer/phys-diary-sub000/core"
	"github.com/ShinzTer/phys-diary-sub000/core/fitness"
	"github.com/ShinzTer/phys-diary-sub000/core/period"
	"github.com/ShinzTer/phys-diary-sub000/core/sport"
	"github.com/ShinzTer/phys-diary-sub000/core/student"
)

var (
	// errors
	ErrNotFound      = errors.New("result not found")
	ErrUnknownRecord = errors.New("record does not exist")
	ErrForeignRecord = errors.New("record belongs to another student or period")

	NowFunc = core.NowUTC // mockable
)

type (
	Repository interface {
		CreateResult(ctx context.Context, r Result) (Result, error)
		QueryResults(ctx context.Context, filter *QueryFilter) ([]Result, error)
		GetResult(ctx context.Context, id int) (Result, error)
		DeleteResult(ctx context.Context, id int) error
	}

	Service interface {
		Create(ctx context.Context, nr NewResult) (Result, error)
		Query(ctx context.Context, filter *QueryFilter) ([]Result, error)
		GetByID(ctx context.Context, id int) (Result, error)
		Delete(ctx context.Context, id int) error
	}

	service struct {
		repo       Repository
		stdSvc     student.Service
		periodSvc  period.Service
		fitnessSvc fitness.Service
		sportSvc   sport.Service
	}
)

var _ Service = (*service)(nil)

func NewService(
	repo Repository,
	stdSvc student.Service,
	periodSvc period.Service,
	fitnessSvc fitness.Service,
	sportSvc sport.Service,
) Service {
	return &service{
		repo:       repo,
		stdSvc:     stdSvc,
		periodSvc:  periodSvc,
		fitnessSvc: fitnessSvc,
		sportSvc:   sportSvc,
	}
}

func (svc *service) Create(ctx context.Context, nr NewResult) (Result, error) {
	if err := fitness.CheckRefs(ctx, svc.stdSvc, svc.periodSvc, nr.StudentID, nr.PeriodID); err != nil {
		return Result{}, err
	}
	if err := svc.checkLinks(ctx, nr); err != nil {
		return Result{}, err
	}

	return svc.repo.CreateResult(ctx, Result{
		StudentID:       nr.StudentID,
		PeriodID:        nr.PeriodID,
		PhysicalTestID:  nr.PhysicalTestID,
		PhysicalStateID: nr.PhysicalStateID,
		SportResultID:   nr.SportResultID,
		CreatedAt:       NowFunc(),
	})
}

// checkLinks checks that every linked record exists and belongs to the student and period of the result.
func (svc *service) checkLinks(ctx context.Context, nr NewResult) error {
	type owner struct{ studentID, periodID int }

	links := []struct {
		field    string
		id       null.Int
		notFound error
		get      func(id int) (owner, error)
	}{
		{
			field: "physical_test_id", id: nr.PhysicalTestID, notFound: fitness.ErrTestNotFound,
			get: func(id int) (owner, error) {
				pt, err := svc.fitnessSvc.GetTest(ctx, id)
				return owner{pt.StudentID, pt.PeriodID}, err
			},
		},
		{
			field: "physical_state_id", id: nr.PhysicalStateID, notFound: fitness.ErrStateNotFound,
			get: func(id int) (owner, error) {
				ps, err := svc.fitnessSvc.GetState(ctx, id)
				return owner{ps.StudentID, ps.PeriodID}, err
			},
		},
		{
			field: "sport_result_id", id: nr.SportResultID, notFound: sport.ErrNotFound,
			get: func(id int) (owner, error) {
				sr, err := svc.sportSvc.GetByID(ctx, id)
				return owner{sr.StudentID, sr.PeriodID}, err
			},
		},
	}

	for _, l := range links {
		if !l.id.Valid {
			continue
		}
		o, err := l.get(l.id.Int)
		if err != nil {
			if errors.Cause(err) == l.notFound {
				return core.NewFieldError(l.field, ErrUnknownRecord)
			}
			return errors.Wrapf(err, "getting %s", l.field)
		}
		if o.studentID != nr.StudentID || o.periodID != nr.PeriodID {
			return core.NewFieldError(l.field, ErrForeignRecord)
		}
	}
	return nil
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter) ([]Result, error) {
	if filter == nil {
		filter = new(QueryFilter)
	}
	return svc.repo.QueryResults(ctx, filter)
}

func (svc *service) GetByID(ctx context.Context, id int) (Result, error) {
	return svc.repo.GetResult(ctx, id)
}

func (svc *service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteResult(ctx, id)
}
