package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/ShinzTer/phys-diary-sub000/core/student"
)

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, other := range repo.db.students {
		if other.UserID == st.UserID {
			return student.Student{}, student.ErrProfileExists
		}
	}
	if _, ok := repo.db.users[st.UserID]; !ok {
		return student.Student{}, student.ErrUnknownUser
	}
	if _, ok := repo.db.groups[st.GroupID]; !ok {
		return student.Student{}, student.ErrUnknownGroup
	}
	st.ID = repo.db.nextID("student")
	repo.db.students[st.ID] = &st
	return st, nil
}

func (repo *studentRepository) QueryStudents(ctx context.Context, filter *student.QueryFilter) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if filter == nil {
		filter = new(student.QueryFilter)
	}
	search := strings.ToLower(filter.Search)

	students := make([]student.Student, 0)
	for _, id := range sortedIDs(repo.db.students) {
		st := repo.db.students[id]
		switch {
		case filter.GroupID != 0 && st.GroupID != filter.GroupID,
			filter.MedicalGroup != "" && st.MedicalGroup != filter.MedicalGroup,
			search != "" && !strings.Contains(strings.ToLower(st.FullName), search):
			continue
		}
		students = append(students, *st)
	}
	sort.SliceStable(students, func(i, j int) bool { return students[i].FullName < students[j].FullName })
	return students, nil
}

func (repo *studentRepository) GetStudent(ctx context.Context, filter student.GetFilter) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	switch {
	case filter.ID != 0:
		if st, ok := repo.db.students[filter.ID]; ok {
			return *st, nil
		}
	case filter.UserID != "":
		for _, st := range repo.db.students {
			if st.UserID == filter.UserID {
				return *st, nil
			}
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.students[st.ID]; !ok {
		return student.Student{}, student.ErrNotFound
	}
	if _, ok := repo.db.groups[st.GroupID]; !ok {
		return student.Student{}, student.ErrUnknownGroup
	}
	repo.db.students[st.ID] = &st
	return st, nil
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.students[id]; !ok {
		return student.ErrNotFound
	}
	repo.db.deleteStudentRows(id)
	return nil
}
