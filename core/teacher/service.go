package teacher

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ShinzTer/phys-diary-sub000/core"
	"github.com/ShinzTer/phys-diary-sub000/core/faculty"
	"github.com/ShinzTer/phys-diary-sub000/core/user"
)

var (
	// errors
	ErrNotFound      = errors.New("teacher not found")
	ErrProfileExists = errors.New("this user already has a teacher profile")
	ErrNotTeacher    = errors.New("user must have the teacher role")
	ErrUnknownUser   = errors.New("user does not exist")
	ErrUnknownFac    = errors.New("faculty does not exist")

	NowFunc = core.NowUTC // mockable
)

type (
	Repository interface {
		CreateTeacher(ctx context.Context, t Teacher) (Teacher, error)
		QueryTeachers(ctx context.Context, filter *QueryFilter) ([]Teacher, error)
		GetTeacher(ctx context.Context, filter GetFilter) (Teacher, error)
		UpdateTeacher(ctx context.Context, t Teacher) (Teacher, error)
		// DeleteTeacher unassigns the teacher from their groups.
		DeleteTeacher(ctx context.Context, id int) error
	}

	Service interface {
		Create(ctx context.Context, nt NewTeacher) (Teacher, error)
		Query(ctx context.Context, filter *QueryFilter) ([]Teacher, error)
		GetByID(ctx context.Context, id int) (Teacher, error)
		GetByUserID(ctx context.Context, userID string) (Teacher, error)
		Update(ctx context.Context, orig Teacher, ut UpdateTeacher) (Teacher, error)
		Delete(ctx context.Context, id int) error
	}

	service struct {
		repo   Repository
		usrSvc user.Service
		facSvc faculty.Service
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, usrSvc user.Service, facSvc faculty.Service) Service {
	return &service{repo: repo, usrSvc: usrSvc, facSvc: facSvc}
}

func (svc *service) checkFaculty(ctx context.Context, id int) error {
	if _, err := svc.facSvc.GetByID(ctx, id); err != nil {
		if errors.Cause(err) == faculty.ErrNotFound {
			return core.NewFieldError("faculty_id", ErrUnknownFac)
		}
		return errors.Wrap(err, "getting faculty")
	}
	return nil
}

func (svc *service) checkUser(ctx context.Context, userID string) error {
	usr, err := svc.usrSvc.GetByID(ctx, userID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return core.NewFieldError("user_id", ErrUnknownUser)
		}
		return errors.Wrap(err, "getting user")
	}
	if !usr.IsTeacher() {
		return core.NewFieldError("user_id", ErrNotTeacher)
	}
	if _, err = svc.GetByUserID(ctx, userID); err == nil {
		return core.NewFieldError("user_id", ErrProfileExists)
	} else if errors.Cause(err) != ErrNotFound {
		return errors.Wrap(err, "getting teacher by user")
	}
	return nil
}

func (svc *service) Create(ctx context.Context, nt NewTeacher) (Teacher, error) {
	if err := svc.checkUser(ctx, nt.UserID); err != nil {
		return Teacher{}, err
	}
	if err := svc.checkFaculty(ctx, nt.FacultyID); err != nil {
		return Teacher{}, err
	}

	now := NowFunc()
	return svc.repo.CreateTeacher(ctx, Teacher{
		UserID:    nt.UserID,
		FacultyID: nt.FacultyID,
		FullName:  nt.FullName,
		Position:  nt.Position,
		Phone:     nt.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter) ([]Teacher, error) {
	if filter == nil {
		filter = new(QueryFilter)
	}
	return svc.repo.QueryTeachers(ctx, filter)
}

func (svc *service) GetByID(ctx context.Context, id int) (Teacher, error) {
	return svc.repo.GetTeacher(ctx, GetFilter{ID: id})
}

func (svc *service) GetByUserID(ctx context.Context, userID string) (Teacher, error) {
	return svc.repo.GetTeacher(ctx, GetFilter{UserID: userID})
}

func (svc *service) Update(ctx context.Context, orig Teacher, ut UpdateTeacher) (Teacher, error) {
	if ut.FacultyID != orig.FacultyID {
		if err := svc.checkFaculty(ctx, ut.FacultyID); err != nil {
			return Teacher{}, err
		}
	}

	t := orig
	t.FacultyID = ut.FacultyID
	t.FullName = ut.FullName
	if ut.Position != nil {
		t.Position = core.CleanString(*ut.Position)
	}
	if ut.Phone != nil {
		t.Phone = core.CleanString(*ut.Phone)
	}
	t.UpdatedAt = NowFunc()
	return svc.repo.UpdateTeacher(ctx, t)
}

func (svc *service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteTeacher(ctx, id)
}
