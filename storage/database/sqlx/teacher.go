package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/ShinzTer/phys-diary-sub000/core/teacher"
)

const teacherColumns = "id, user_id, faculty_id, full_name, position, phone, created_at, updated_at"

var teacherConstraints = map[string]error{
	"teacher_user_id_key":     teacher.ErrProfileExists,
	"teacher_user_id_fkey":    teacher.ErrUnknownUser,
	"teacher_faculty_id_fkey": teacher.ErrUnknownFac,
}

type teacherRepository struct {
	db *sqlx.DB
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *sqlx.DB) teacher.Repository {
	return &teacherRepository{db: db}
}

func (repo *teacherRepository) mapErr(err error, msg string) error {
	if e := constraintErr(err, teacherConstraints); e != nil {
		return e
	}
	return errors.Wrap(err, msg)
}

func (repo *teacherRepository) CreateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	q := `INSERT INTO teacher (user_id, faculty_id, full_name, position, phone, created_at, updated_at)
		VALUES (:user_id, :faculty_id, :full_name, :position, :phone, :created_at, :updated_at) RETURNING id`
	id, err := insertReturningID(ctx, repo.db, q, t)
	if err != nil {
		return teacher.Teacher{}, repo.mapErr(err, "inserting teacher")
	}
	t.ID = id
	return t, nil
}

func (repo *teacherRepository) QueryTeachers(ctx context.Context, filter *teacher.QueryFilter) ([]teacher.Teacher, error) {
	var cond conditions
	if filter != nil {
		if filter.FacultyID != 0 {
			cond.add("faculty_id = ?", filter.FacultyID)
		}
		if filter.Search != "" {
			cond.add("full_name ILIKE ?", "%"+filter.Search+"%")
		}
	}

	teachers := make([]teacher.Teacher, 0)
	q := repo.db.Rebind("SELECT " + teacherColumns + " FROM teacher" + cond.where() + " ORDER BY full_name, id")
	if err := repo.db.SelectContext(ctx, &teachers, q, cond.args...); err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}
	return teachers, nil
}

func (repo *teacherRepository) GetTeacher(ctx context.Context, filter teacher.GetFilter) (teacher.Teacher, error) {
	var (
		col string
		arg interface{}
	)
	switch {
	case filter.ID != 0:
		col, arg = "id", filter.ID
	case filter.UserID != "":
		col, arg = "user_id::text", filter.UserID
	default:
		return teacher.Teacher{}, teacher.ErrNotFound
	}

	var t teacher.Teacher
	if err := repo.db.GetContext(ctx, &t, "SELECT "+teacherColumns+" FROM teacher WHERE "+col+" = $1", arg); err != nil {
		return teacher.Teacher{}, trapNoRowsErr(err, teacher.ErrNotFound, "finding teacher")
	}
	return t, nil
}

func (repo *teacherRepository) UpdateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	q := `UPDATE teacher SET faculty_id = :faculty_id, full_name = :full_name, position = :position,
		phone = :phone, updated_at = :updated_at WHERE id = :id`
	if err := namedUpdate(ctx, repo.db, q, t, teacher.ErrNotFound); err != nil {
		if err == teacher.ErrNotFound {
			return teacher.Teacher{}, err
		}
		return teacher.Teacher{}, repo.mapErr(err, "updating teacher")
	}
	return t, nil
}

// DeleteTeacher relies on the group.teacher_id foreign key to unassign the teacher.
func (repo *teacherRepository) DeleteTeacher(ctx context.Context, id int) error {
	if err := deleteByID(ctx, repo.db, "teacher", id, teacher.ErrNotFound); err != nil {
		if err == teacher.ErrNotFound {
			return err
		}
		return errors.Wrap(err, "deleting teacher")
	}
	return nil
}
