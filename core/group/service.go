package group

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/ShinzTer/phys-diary-sub000/core"
	"github.com/ShinzTer/phys-diary-sub000/core/faculty"
	"github.com/ShinzTer/phys-diary-sub000/core/teacher"
)

var (
	// errors
	ErrNotFound       = errors.New("group not found")
	ErrNameExists     = errors.New("a group with this name already exists in this faculty")
	ErrInUse          = errors.New("group still has students")
	ErrUnknownFaculty = errors.New("faculty does not exist")
	ErrUnknownTeacher = errors.New("teacher does not exist")

	NowFunc = core.NowUTC // mockable
)

type (
	Repository interface {
		CheckNameUniqueness(ctx context.Context, facultyID int, name string, excludedIDs ...int) error
		CreateGroup(ctx context.Context, grp Group) (Group, error)
		QueryGroups(ctx context.Context, filter *QueryFilter) ([]Group, error)
		GetGroup(ctx context.Context, id int) (Group, error)
		UpdateGroup(ctx context.Context, grp Group) (Group, error)
		// DeleteGroup fails with ErrInUse while students belong to the group.
		DeleteGroup(ctx context.Context, id int) error
	}

	Service interface {
		CheckUniqueness(ctx context.Context, facultyID int, name string, excludedIDs ...int) error
		Create(ctx context.Context, ng NewGroup) (Group, error)
		Query(ctx context.Context, filter *QueryFilter) ([]Group, error)
		GetByID(ctx context.Context, id int) (Group, error)
		Update(ctx context.Context, orig Group, ug UpdateGroup) (Group, error)
		Delete(ctx context.Context, id int) error
	}

	service struct {
		repo    Repository
		facSvc  faculty.Service
		teacSvc teacher.Service
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, facSvc faculty.Service, teacSvc teacher.Service) Service {
	return &service{repo: repo, facSvc: facSvc, teacSvc: teacSvc}
}

func (svc *service) CheckUniqueness(ctx context.Context, facultyID int, name string, excludedIDs ...int) error {
	if err := svc.repo.CheckNameUniqueness(ctx, facultyID, name, excludedIDs...); err != nil {
		if errors.Cause(err) == ErrNameExists {
			return core.NewFieldError("name", ErrNameExists)
		}
		return errors.Wrap(err, "checking name uniqueness")
	}
	return nil
}

func (svc *service) checkRefs(ctx context.Context, facultyID int, teacherID null.Int) error {
	if _, err := svc.facSvc.GetByID(ctx, facultyID); err != nil {
		if errors.Cause(err) == faculty.ErrNotFound {
			return core.NewFieldError("faculty_id", ErrUnknownFaculty)
		}
		return errors.Wrap(err, "getting faculty")
	}
	if teacherID.Valid {
		if _, err := svc.teacSvc.GetByID(ctx, teacherID.Int); err != nil {
			if errors.Cause(err) == teacher.ErrNotFound {
				return core.NewFieldError("teacher_id", ErrUnknownTeacher)
			}
			return errors.Wrap(err, "getting teacher")
		}
	}
	return nil
}

func (svc *service) Create(ctx context.Context, ng NewGroup) (Group, error) {
	if err := svc.checkRefs(ctx, ng.FacultyID, ng.TeacherID); err != nil {
		return Group{}, err
	}

	now := NowFunc()
	return svc.repo.CreateGroup(ctx, Group{
		Name:      ng.Name,
		FacultyID: ng.FacultyID,
		TeacherID: ng.TeacherID,
		Course:    ng.Course,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter) ([]Group, error) {
	if filter == nil {
		filter = new(QueryFilter)
	}
	return svc.repo.QueryGroups(ctx, filter)
}

func (svc *service) GetByID(ctx context.Context, id int) (Group, error) {
	return svc.repo.GetGroup(ctx, id)
}

func (svc *service) Update(ctx context.Context, orig Group, ug UpdateGroup) (Group, error) {
	grp := orig
	grp.Name = ug.Name
	grp.FacultyID = ug.FacultyID
	grp.Course = ug.Course
	switch {
	case ug.UnsetTeacher:
		grp.TeacherID = null.Int{}
	case ug.TeacherID.Valid:
		grp.TeacherID = ug.TeacherID
	}

	if err := svc.checkRefs(ctx, grp.FacultyID, grp.TeacherID); err != nil {
		return Group{}, err
	}
	grp.UpdatedAt = NowFunc()
	return svc.repo.UpdateGroup(ctx, grp)
}

func (svc *service) Delete(ctx context.Context, id int) error {
	if err := svc.repo.DeleteGroup(ctx, id); err != nil {
		if errors.Cause(err) == ErrInUse {
			return core.NewValidationError(ErrInUse)
		}
		return err
	}
	return nil
}
