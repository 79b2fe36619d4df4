package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/ShinzTer/phys-diary-sub000/core/faculty"
)

type facultyRepository struct {
	db *DB
}

var _ faculty.Repository = (*facultyRepository)(nil) // interface compliance check

func NewFacultyRepository(db *DB) faculty.Repository {
	return &facultyRepository{db: db}
}

func (repo *facultyRepository) CheckNameUniqueness(ctx context.Context, name string, excludedIDs ...int) error {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.checkName(name, excludedIDs...)
}

func (repo *facultyRepository) checkName(name string, excludedIDs ...int) error {
	for _, fac := range repo.db.faculties {
		if strings.EqualFold(fac.Name, name) && !containsInt(excludedIDs, fac.ID) {
			return faculty.ErrNameExists
		}
	}
	return nil
}

func (repo *facultyRepository) CreateFaculty(ctx context.Context, fac faculty.Faculty) (faculty.Faculty, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if err := repo.checkName(fac.Name); err != nil {
		return faculty.Faculty{}, err
	}
	fac.ID = repo.db.nextID("faculty")
	repo.db.faculties[fac.ID] = &fac
	return fac, nil
}

func (repo *facultyRepository) QueryFaculties(ctx context.Context, filter *faculty.QueryFilter) ([]faculty.Faculty, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var search string
	if filter != nil {
		search = strings.ToLower(filter.Search)
	}

	facs := make([]faculty.Faculty, 0, len(repo.db.faculties))
	for _, id := range sortedIDs(repo.db.faculties) {
		fac := repo.db.faculties[id]
		if search != "" &&
			!strings.Contains(strings.ToLower(fac.Name), search) &&
			!strings.Contains(strings.ToLower(fac.Description), search) {
			continue
		}
		facs = append(facs, *fac)
	}
	sort.SliceStable(facs, func(i, j int) bool { return facs[i].Name < facs[j].Name })
	return facs, nil
}

func (repo *facultyRepository) GetFaculty(ctx context.Context, id int) (faculty.Faculty, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if fac, ok := repo.db.faculties[id]; ok {
		return *fac, nil
	}
	return faculty.Faculty{}, faculty.ErrNotFound
}

func (repo *facultyRepository) UpdateFaculty(ctx context.Context, fac faculty.Faculty) (faculty.Faculty, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.faculties[fac.ID]; !ok {
		return faculty.Faculty{}, faculty.ErrNotFound
	}
	if err := repo.checkName(fac.Name, fac.ID); err != nil {
		return faculty.Faculty{}, err
	}
	repo.db.faculties[fac.ID] = &fac
	return fac, nil
}

func (repo *facultyRepository) DeleteFaculty(ctx context.Context, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.faculties[id]; !ok {
		return faculty.ErrNotFound
	}
	for _, g := range repo.db.groups {
		if g.FacultyID == id {
			return faculty.ErrInUse
		}
	}
	for _, t := range repo.db.teachers {
		if t.FacultyID == id {
			return faculty.ErrInUse
		}
	}
	delete(repo.db.faculties, id)
	return nil
}

func containsInt(ids []int, id int) bool {
	for _, i := range ids {
		if i == id {
			return true
		}
	}
	return false
}
