package student

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ShinzTer/phys-diary-sub000/core"
	"github.com/ShinzTer/phys-diary-sub000/core/group"
	"github.com/ShinzTer/phys-diary-sub000/core/user"
)

var (
	// errors
	ErrNotFound      = errors.New("student not found")
	ErrProfileExists = errors.New("this user already has a student profile")
	ErrNotStudent    = errors.New("user must have the student role")
	ErrUnknownUser   = errors.New("user does not exist")
	ErrUnknownGroup  = errors.New("group does not exist")

	NowFunc = core.NowUTC // mockable
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, st Student) (Student, error)
		QueryStudents(ctx context.Context, filter *QueryFilter) ([]Student, error)
		GetStudent(ctx context.Context, filter GetFilter) (Student, error)
		UpdateStudent(ctx context.Context, st Student) (Student, error)
		// DeleteStudent also deletes the student's records.
		DeleteStudent(ctx context.Context, id int) error
	}

	Service interface {
		Create(ctx context.Context, ns NewStudent) (Student, error)
		Query(ctx context.Context, filter *QueryFilter) ([]Student, error)
		GetByID(ctx context.Context, id int) (Student, error)
		GetByUserID(ctx context.Context, userID string) (Student, error)
		Update(ctx context.Context, orig Student, us UpdateStudent) (Student, error)
		Delete(ctx context.Context, id int) error
	}

	service struct {
		repo   Repository
		usrSvc user.Service
		grpSvc group.Service
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, usrSvc user.Service, grpSvc group.Service) Service {
	return &service{repo: repo, usrSvc: usrSvc, grpSvc: grpSvc}
}

func (svc *service) checkGroup(ctx context.Context, id int) error {
	if _, err := svc.grpSvc.GetByID(ctx, id); err != nil {
		if errors.Cause(err) == group.ErrNotFound {
			return core.NewFieldError("group_id", ErrUnknownGroup)
		}
		return errors.Wrap(err, "getting group")
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
	if !usr.IsStudent() {
		return core.NewFieldError("user_id", ErrNotStudent)
	}
	if _, err = svc.GetByUserID(ctx, userID); err == nil {
		return core.NewFieldError("user_id", ErrProfileExists)
	} else if errors.Cause(err) != ErrNotFound {
		return errors.Wrap(err, "getting student by user")
	}
	return nil
}

func (svc *service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	if err := svc.checkUser(ctx, ns.UserID); err != nil {
		return Student{}, err
	}
	if err := svc.checkGroup(ctx, ns.GroupID); err != nil {
		return Student{}, err
	}

	now := NowFunc()
	return svc.repo.CreateStudent(ctx, Student{
		UserID:       ns.UserID,
		GroupID:      ns.GroupID,
		FullName:     ns.FullName,
		Gender:       ns.Gender,
		BirthDate:    parseBirthDate(ns.BirthDate),
		MedicalGroup: ns.MedicalGroup,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter) ([]Student, error) {
	if filter == nil {
		filter = new(QueryFilter)
	}
	return svc.repo.QueryStudents(ctx, filter)
}

func (svc *service) GetByID(ctx context.Context, id int) (Student, error) {
	return svc.repo.GetStudent(ctx, GetFilter{ID: id})
}

func (svc *service) GetByUserID(ctx context.Context, userID string) (Student, error) {
	return svc.repo.GetStudent(ctx, GetFilter{UserID: userID})
}

func (svc *service) Update(ctx context.Context, orig Student, us UpdateStudent) (Student, error) {
	if us.GroupID != orig.GroupID {
		if err := svc.checkGroup(ctx, us.GroupID); err != nil {
			return Student{}, err
		}
	}

	st := orig
	st.GroupID = us.GroupID
	st.FullName = us.FullName
	st.Gender = us.Gender
	st.MedicalGroup = us.MedicalGroup
	if us.BirthDate != "" {
		st.BirthDate = parseBirthDate(us.BirthDate)
	}
	st.UpdatedAt = NowFunc()
	return svc.repo.UpdateStudent(ctx, st)
}

func (svc *service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteStudent(ctx, id)
}
