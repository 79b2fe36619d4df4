package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/ShinzTer/phys-diary-sub000/core/student"
)

const studentColumns = "id, user_id, group_id, full_name, gender, birth_date, medical_group, created_at, updated_at"

var studentConstraints = map[string]error{
	"student_user_id_key":   student.ErrProfileExists,
	"student_user_id_fkey":  student.ErrUnknownUser,
	"student_group_id_fkey": student.ErrUnknownGroup,
}

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) mapErr(err error, msg string) error {
	if e := constraintErr(err, studentConstraints); e != nil {
		return e
	}
	return errors.Wrap(err, msg)
}

func (repo *studentRepository) CreateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	q := `INSERT INTO student (user_id, group_id, full_name, gender, birth_date, medical_group, created_at, updated_at)
		VALUES (:user_id, :group_id, :full_name, :gender, :birth_date, :medical_group, :created_at, :updated_at)
		RETURNING id`
	id, err := insertReturningID(ctx, repo.db, q, st)
	if err != nil {
		return student.Student{}, repo.mapErr(err, "inserting student")
	}
	st.ID = id
	return st, nil
}

func (repo *studentRepository) QueryStudents(ctx context.Context, filter *student.QueryFilter) ([]student.Student, error) {
	var cond conditions
	if filter != nil {
		if filter.GroupID != 0 {
			cond.add("group_id = ?", filter.GroupID)
		}
		if filter.MedicalGroup != "" {
			cond.add("medical_group = ?", filter.MedicalGroup)
		}
		if filter.Search != "" {
			cond.add("full_name ILIKE ?", "%"+filter.Search+"%")
		}
	}

	students := make([]student.Student, 0)
	q := repo.db.Rebind("SELECT " + studentColumns + " FROM student" + cond.where() + " ORDER BY full_name, id")
	if err := repo.db.SelectContext(ctx, &students, q, cond.args...); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return students, nil
}

func (repo *studentRepository) GetStudent(ctx context.Context, filter student.GetFilter) (student.Student, error) {
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
		return student.Student{}, student.ErrNotFound
	}

	var st student.Student
	if err := repo.db.GetContext(ctx, &st, "SELECT "+studentColumns+" FROM student WHERE "+col+" = $1", arg); err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "finding student")
	}
	return st, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	q := `UPDATE student SET group_id = :group_id, full_name = :full_name, gender = :gender,
		birth_date = :birth_date, medical_group = :medical_group, updated_at = :updated_at
		WHERE id = :id`
	if err := namedUpdate(ctx, repo.db, q, st, student.ErrNotFound); err != nil {
		if err == student.ErrNotFound {
			return student.Student{}, err
		}
		return student.Student{}, repo.mapErr(err, "updating student")
	}
	return st, nil
}

// DeleteStudent relies on the foreign keys to delete the student's records.
func (repo *studentRepository) DeleteStudent(ctx context.Context, id int) error {
	if err := deleteByID(ctx, repo.db, "student", id, student.ErrNotFound); err != nil {
		if err == student.ErrNotFound {
			return err
		}
		return errors.Wrap(err, "deleting student")
	}
	return nil
}
