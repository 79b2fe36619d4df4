package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/ShinzTer/phys-diary-sub000/core/teacher"
)

type teacherRepository struct {
	db *DB
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *DB) teacher.Repository {
	return &teacherRepository{db: db}
}

func (repo *teacherRepository) CreateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, other := range repo.db.teachers {
		if other.UserID == t.UserID {
			return teacher.Teacher{}, teacher.ErrProfileExists
		}
	}
	if _, ok := repo.db.users[t.UserID]; !ok {
		return teacher.Teacher{}, teacher.ErrUnknownUser
	}
	if _, ok := repo.db.faculties[t.FacultyID]; !ok {
		return teacher.Teacher{}, teacher.ErrUnknownFac
	}
	t.ID = repo.db.nextID("teacher")
	repo.db.teachers[t.ID] = &t
	return t, nil
}

func (repo *teacherRepository) QueryTeachers(ctx context.Context, filter *teacher.QueryFilter) ([]teacher.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if filter == nil {
		filter = new(teacher.QueryFilter)
	}
	search := strings.ToLower(filter.Search)

	teachers := make([]teacher.Teacher, 0)
	for _, id := range sortedIDs(repo.db.teachers) {
		t := repo.db.teachers[id]
		if filter.FacultyID != 0 && t.FacultyID != filter.FacultyID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.FullName), search) {
			continue
		}
		teachers = append(teachers, *t)
	}
	sort.SliceStable(teachers, func(i, j int) bool { return teachers[i].FullName < teachers[j].FullName })
	return teachers, nil
}

func (repo *teacherRepository) GetTeacher(ctx context.Context, filter teacher.GetFilter) (teacher.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	switch {
	case filter.ID != 0:
		if t, ok := repo.db.teachers[filter.ID]; ok {
			return *t, nil
		}
	case filter.UserID != "":
		for _, t := range repo.db.teachers {
			if t.UserID == filter.UserID {
				return *t, nil
			}
		}
	}
	return teacher.Teacher{}, teacher.ErrNotFound
}

func (repo *teacherRepository) UpdateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.teachers[t.ID]; !ok {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	if _, ok := repo.db.faculties[t.FacultyID]; !ok {
		return teacher.Teacher{}, teacher.ErrUnknownFac
	}
	repo.db.teachers[t.ID] = &t
	return t, nil
}

func (repo *teacherRepository) DeleteTeacher(ctx context.Context, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.teachers[id]; !ok {
		return teacher.ErrNotFound
	}
	repo.db.deleteTeacherRow(id)
	return nil
}
