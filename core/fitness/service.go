package fitness

import (
	"context"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/ShinzTer/phys-diary-sub000/core"
	"github.com/ShinzTer/phys-diary-sub000/core/period"
	"github.com/ShinzTer/phys-diary-sub000/core/student"
)

var (
	// errors
	ErrTestNotFound   = errors.New("physical test not found")
	ErrStateNotFound  = errors.New("physical state sample not found")
	ErrUnknownStudent = errors.New("student does not exist")
	ErrUnknownPeriod  = errors.New("period does not exist")

	NowFunc = core.NowUTC // mockable
)

type (
	Repository interface {
		CreatePhysicalTest(ctx context.Context, pt PhysicalTest) (PhysicalTest, error)
		QueryPhysicalTests(ctx context.Context, filter *QueryFilter) ([]PhysicalTest, error)
		GetPhysicalTest(ctx context.Context, id int) (PhysicalTest, error)
		UpdatePhysicalTest(ctx context.Context, pt PhysicalTest) (PhysicalTest, error)
		DeletePhysicalTest(ctx context.Context, id int) error

		CreatePhysicalState(ctx context.Context, ps PhysicalState) (PhysicalState, error)
		QueryPhysicalStates(ctx context.Context, filter *QueryFilter) ([]PhysicalState, error)
		GetPhysicalState(ctx context.Context, id int) (PhysicalState, error)
		UpdatePhysicalState(ctx context.Context, ps PhysicalState) (PhysicalState, error)
		DeletePhysicalState(ctx context.Context, id int) error
	}

	// Service manages physical tests and physical state samples.
	// Records are listed in creation order.
	Service interface {
		CreateTest(ctx context.Context, nt NewPhysicalTest, createdBy string) (PhysicalTest, error)
		QueryTests(ctx context.Context, filter *QueryFilter) ([]PhysicalTest, error)
		GetTest(ctx context.Context, id int) (PhysicalTest, error)
		UpdateTest(ctx context.Context, orig PhysicalTest, ut UpdatePhysicalTest) (PhysicalTest, error)
		DeleteTest(ctx context.Context, id int) error

		CreateState(ctx context.Context, ns NewPhysicalState, createdBy string) (PhysicalState, error)
		QueryStates(ctx context.Context, filter *QueryFilter) ([]PhysicalState, error)
		GetState(ctx context.Context, id int) (PhysicalState, error)
		UpdateState(ctx context.Context, orig PhysicalState, us UpdatePhysicalState) (PhysicalState, error)
		DeleteState(ctx context.Context, id int) error
	}

	service struct {
		repo      Repository
		stdSvc    student.Service
		periodSvc period.Service
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, stdSvc student.Service, periodSvc period.Service) Service {
	return &service{repo: repo, stdSvc: stdSvc, periodSvc: periodSvc}
}

// CheckRefs checks that the student and the period of a record exist.
func CheckRefs(ctx context.Context, stdSvc student.Service, periodSvc period.Service, studentID, periodID int) error {
	if _, err := stdSvc.GetByID(ctx, studentID); err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return core.NewFieldError("student_id", ErrUnknownStudent)
		}
		return errors.Wrap(err, "getting student")
	}
	if _, err := periodSvc.GetByID(ctx, periodID); err != nil {
		if errors.Cause(err) == period.ErrNotFound {
			return core.NewFieldError("period_id", ErrUnknownPeriod)
		}
		return errors.Wrap(err, "getting period")
	}
	return nil
}

// Tests

func (svc *service) CreateTest(ctx context.Context, nt NewPhysicalTest, createdBy string) (PhysicalTest, error) {
	if err := CheckRefs(ctx, svc.stdSvc, svc.periodSvc, nt.StudentID, nt.PeriodID); err != nil {
		return PhysicalTest{}, err
	}

	now := NowFunc()
	pt := PhysicalTest{
		StudentID: nt.StudentID,
		PeriodID:  nt.PeriodID,
		CreatedBy: null.NewString(createdBy, createdBy != ""),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := copier.Copy(&pt, &nt.PhysicalTestValues); err != nil {
		return PhysicalTest{}, errors.Wrap(err, "copying test values")
	}
	return svc.repo.CreatePhysicalTest(ctx, pt)
}

func (svc *service) QueryTests(ctx context.Context, filter *QueryFilter) ([]PhysicalTest, error) {
	if filter == nil {
		filter = new(QueryFilter)
	}
	return svc.repo.QueryPhysicalTests(ctx, filter)
}

func (svc *service) GetTest(ctx context.Context, id int) (PhysicalTest, error) {
	return svc.repo.GetPhysicalTest(ctx, id)
}

func (svc *service) UpdateTest(ctx context.Context, orig PhysicalTest, ut UpdatePhysicalTest) (PhysicalTest, error) {
	pt := orig
	if err := copier.Copy(&pt, &ut.PhysicalTestValues); err != nil {
		return PhysicalTest{}, errors.Wrap(err, "copying test values")
	}
	pt.UpdatedAt = NowFunc()
	return svc.repo.UpdatePhysicalTest(ctx, pt)
}

func (svc *service) DeleteTest(ctx context.Context, id int) error {
	return svc.repo.DeletePhysicalTest(ctx, id)
}

// States

func (svc *service) CreateState(ctx context.Context, ns NewPhysicalState, createdBy string) (PhysicalState, error) {
	if err := CheckRefs(ctx, svc.stdSvc, svc.periodSvc, ns.StudentID, ns.PeriodID); err != nil {
		return PhysicalState{}, err
	}

	now := NowFunc()
	ps := PhysicalState{
		StudentID: ns.StudentID,
		PeriodID:  ns.PeriodID,
		CreatedBy: null.NewString(createdBy, createdBy != ""),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := copier.Copy(&ps, &ns.PhysicalStateValues); err != nil {
		return PhysicalState{}, errors.Wrap(err, "copying state values")
	}
	return svc.repo.CreatePhysicalState(ctx, ps)
}

func (svc *service) QueryStates(ctx context.Context, filter *QueryFilter) ([]PhysicalState, error) {
	if filter == nil {
		filter = new(QueryFilter)
	}
	return svc.repo.QueryPhysicalStates(ctx, filter)
}

func (svc *service) GetState(ctx context.Context, id int) (PhysicalState, error) {
	return svc.repo.GetPhysicalState(ctx, id)
}

func (svc *service) UpdateState(ctx context.Context, orig PhysicalState, us UpdatePhysicalState) (PhysicalState, error) {
	ps := orig
	if err := copier.Copy(&ps, &us.PhysicalStateValues); err != nil {
		return PhysicalState{}, errors.Wrap(err, "copying state values")
	}
	ps.UpdatedAt = NowFunc()
	return svc.repo.UpdatePhysicalState(ctx, ps)
}

func (svc *service) DeleteState(ctx context.Context, id int) error {
	return svc.repo.DeletePhysicalState(ctx, id)
}
