package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/ShinzTer/phys-diary-sub000/core/faculty"
)

const facultyColumns = "id, name, description, created_at, updated_at"

var facultyConstraints = map[string]error{"faculty_name_key": faculty.ErrNameExists}

type facultyRepository struct {
	db *sqlx.DB
}

var _ faculty.Repository = (*facultyRepository)(nil) // interface compliance check

func NewFacultyRepository(db *sqlx.DB) faculty.Repository {
	return &facultyRepository{db: db}
}

func (repo *facultyRepository) mapErr(err error, msg string) error {
	if e := constraintErr(err, facultyConstraints); e != nil {
		return e
	}
	return errors.Wrap(err, msg)
}

func (repo *facultyRepository) CheckNameUniqueness(ctx context.Context, name string, excludedIDs ...int) error {
	var cond conditions
	cond.add("LOWER(name) = LOWER(?)", name)
	if len(excludedIDs) > 0 {
		cond.add("id NOT IN (?)", excludedIDs)
	}

	var ids []int
	if err := selectIn(ctx, repo.db, &ids, "SELECT id FROM faculty"+cond.where()+" LIMIT 1", cond.args...); err != nil {
		return errors.Wrap(err, "checking faculty name uniqueness")
	}
	if len(ids) > 0 {
		return faculty.ErrNameExists
	}
	return nil
}

func (repo *facultyRepository) CreateFaculty(ctx context.Context, fac faculty.Faculty) (faculty.Faculty, error) {
	q := `INSERT INTO faculty (name, description, created_at, updated_at)
		VALUES (:name, :description, :created_at, :updated_at) RETURNING id`
	id, err := insertReturningID(ctx, repo.db, q, fac)
	if err != nil {
		return faculty.Faculty{}, repo.mapErr(err, "inserting faculty")
	}
	fac.ID = id
	return fac, nil
}

func (repo *facultyRepository) QueryFaculties(ctx context.Context, filter *faculty.QueryFilter) ([]faculty.Faculty, error) {
	var cond conditions
	if filter != nil && filter.Search != "" {
		val := "%" + filter.Search + "%"
		cond.add("(name ILIKE ? OR description ILIKE ?)", val, val)
	}

	facs := make([]faculty.Faculty, 0)
	q := repo.db.Rebind("SELECT " + facultyColumns + " FROM faculty" + cond.where() + " ORDER BY name, id")
	if err := repo.db.SelectContext(ctx, &facs, q, cond.args...); err != nil {
		return nil, errors.Wrap(err, "querying faculties")
	}
	return facs, nil
}

func (repo *facultyRepository) GetFaculty(ctx context.Context, id int) (faculty.Faculty, error) {
	var fac faculty.Faculty
	if err := repo.db.GetContext(ctx, &fac, "SELECT "+facultyColumns+" FROM faculty WHERE id = $1", id); err != nil {
		return faculty.Faculty{}, trapNoRowsErr(err, faculty.ErrNotFound, "finding faculty")
	}
	return fac, nil
}

func (repo *facultyRepository) UpdateFaculty(ctx context.Context, fac faculty.Faculty) (faculty.Faculty, error) {
	q := "UPDATE faculty SET name = :name, description = :description, updated_at = :updated_at WHERE id = :id"
	if err := namedUpdate(ctx, repo.db, q, fac, faculty.ErrNotFound); err != nil {
		if err == faculty.ErrNotFound {
			return faculty.Faculty{}, err
		}
		return faculty.Faculty{}, repo.mapErr(err, "updating faculty")
	}
	return fac, nil
}

func (repo *facultyRepository) DeleteFaculty(ctx context.Context, id int) error {
	if err := deleteByID(ctx, repo.db, "faculty", id, faculty.ErrNotFound); err != nil {
		if err == faculty.ErrNotFound {
			return err
		}
		if isForeignKeyViolation(err) {
			return faculty.ErrInUse
		}
		return errors.Wrap(err, "deleting faculty")
	}
	return nil
}
