package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/ShinzTer/phys-diary-sub000/core/group"
)

const groupColumns = "id, name, faculty_id, teacher_id, course, created_at, updated_at"

var groupConstraints = map[string]error{
	"group_faculty_id_name_key": group.ErrNameExists,
	"group_faculty_id_fkey":     group.ErrUnknownFaculty,
	"group_teacher_id_fkey":     group.ErrUnknownTeacher,
}

type groupRepository struct {
	db *sqlx.DB
}

var _ group.Repository = (*groupRepository)(nil) // interface compliance check

func NewGroupRepository(db *sqlx.DB) group.Repository {
	return &groupRepository{db: db}
}

func (repo *groupRepository) mapErr(err error, msg string) error {
	if e := constraintErr(err, groupConstraints); e != nil {
		return e
	}
	return errors.Wrap(err, msg)
}

func (repo *groupRepository) CheckNameUniqueness(ctx context.Context, facultyID int, name string, excludedIDs ...int) error {
	var cond conditions
	cond.add("faculty_id = ?", facultyID)
	cond.add("LOWER(name) = LOWER(?)", name)
	if len(excludedIDs) > 0 {
		cond.add("id NOT IN (?)", excludedIDs)
	}

	var ids []int
	if err := selectIn(ctx, repo.db, &ids, `SELECT id FROM "group"`+cond.where()+" LIMIT 1", cond.args...); err != nil {
		return errors.Wrap(err, "checking group name uniqueness")
	}
	if len(ids) > 0 {
		return group.ErrNameExists
	}
	return nil
}

func (repo *groupRepository) CreateGroup(ctx context.Context, grp group.Group) (group.Group, error) {
	q := `INSERT INTO "group" (name, faculty_id, teacher_id, course, created_at, updated_at)
		VALUES (:name, :faculty_id, :teacher_id, :course, :created_at, :updated_at) RETURNING id`
	id, err := insertReturningID(ctx, repo.db, q, grp)
	if err != nil {
		return group.Group{}, repo.mapErr(err, "inserting group")
	}
	grp.ID = id
	return grp, nil
}

func (repo *groupRepository) QueryGroups(ctx context.Context, filter *group.QueryFilter) ([]group.Group, error) {
	var cond conditions
	if filter != nil {
		if filter.FacultyID != 0 {
			cond.add("faculty_id = ?", filter.FacultyID)
		}
		if filter.TeacherID != 0 {
			cond.add("teacher_id = ?", filter.TeacherID)
		}
		if filter.Course != 0 {
			cond.add("course = ?", filter.Course)
		}
		if filter.Search != "" {
			cond.add("name ILIKE ?", "%"+filter.Search+"%")
		}
	}

	groups := make([]group.Group, 0)
	q := repo.db.Rebind(`SELECT ` + groupColumns + ` FROM "group"` + cond.where() + " ORDER BY name, id")
	if err := repo.db.SelectContext(ctx, &groups, q, cond.args...); err != nil {
		return nil, errors.Wrap(err, "querying groups")
	}
	return groups, nil
}

func (repo *groupRepository) GetGroup(ctx context.Context, id int) (group.Group, error) {
	var grp group.Group
	if err := repo.db.GetContext(ctx, &grp, `SELECT `+groupColumns+` FROM "group" WHERE id = $1`, id); err != nil {
		return group.Group{}, trapNoRowsErr(err, group.ErrNotFound, "finding group")
	}
	return grp, nil
}

func (repo *groupRepository) UpdateGroup(ctx context.Context, grp group.Group) (group.Group, error) {
	q := `UPDATE "group" SET name = :name, faculty_id = :faculty_id, teacher_id = :teacher_id,
		course = :course, updated_at = :updated_at WHERE id = :id`
	if err := namedUpdate(ctx, repo.db, q, grp, group.ErrNotFound); err != nil {
		if err == group.ErrNotFound {
			return group.Group{}, err
		}
		return group.Group{}, repo.mapErr(err, "updating group")
	}
	return grp, nil
}

func (repo *groupRepository) DeleteGroup(ctx context.Context, id int) error {
	if err := deleteByID(ctx, repo.db, `"group"`, id, group.ErrNotFound); err != nil {
		if err == group.ErrNotFound {
			return err
		}
		if isForeignKeyViolation(err) {
			return group.ErrInUse
		}
		return errors.Wrap(err, "deleting group")
	}
	return nil
}
