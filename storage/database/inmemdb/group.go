package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/ShinzTer/phys-diary-sub000/core/group"
)

type groupRepository struct {
	db *DB
}

var _ group.Repository = (*groupRepository)(nil) // interface compliance check

func NewGroupRepository(db *DB) group.Repository {
	return &groupRepository{db: db}
}

func (repo *groupRepository) CheckNameUniqueness(ctx context.Context, facultyID int, name string, excludedIDs ...int) error {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.checkName(facultyID, name, excludedIDs...)
}

func (repo *groupRepository) checkName(facultyID int, name string, excludedIDs ...int) error {
	for _, g := range repo.db.groups {
		if g.FacultyID == facultyID && strings.EqualFold(g.Name, name) && !containsInt(excludedIDs, g.ID) {
			return group.ErrNameExists
		}
	}
	return nil
}

// checkRefs mirrors the foreign keys of the group table. Callers hold the lock.
func (repo *groupRepository) checkRefs(grp group.Group) error {
	if _, ok := repo.db.faculties[grp.FacultyID]; !ok {
		return group.ErrUnknownFaculty
	}
	if grp.TeacherID.Valid {
		if _, ok := repo.db.teachers[grp.TeacherID.Int]; !ok {
			return group.ErrUnknownTeacher
		}
	}
	return nil
}

func (repo *groupRepository) CreateGroup(ctx context.Context, grp group.Group) (group.Group, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if err := repo.checkRefs(grp); err != nil {
		return group.Group{}, err
	}
	if err := repo.checkName(grp.FacultyID, grp.Name); err != nil {
		return group.Group{}, err
	}
	grp.ID = repo.db.nextID("group")
	repo.db.groups[grp.ID] = &grp
	return grp, nil
}

func (repo *groupRepository) QueryGroups(ctx context.Context, filter *group.QueryFilter) ([]group.Group, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if filter == nil {
		filter = new(group.QueryFilter)
	}
	search := strings.ToLower(filter.Search)

	groups := make([]group.Group, 0)
	for _, id := range sortedIDs(repo.db.groups) {
		g := repo.db.groups[id]
		switch {
		case filter.FacultyID != 0 && g.FacultyID != filter.FacultyID,
			filter.TeacherID != 0 && (!g.TeacherID.Valid || g.TeacherID.Int != filter.TeacherID),
			filter.Course != 0 && g.Course != filter.Course,
			search != "" && !strings.Contains(strings.ToLower(g.Name), search):
			continue
		}
		groups = append(groups, *g)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups, nil
}

func (repo *groupRepository) GetGroup(ctx context.Context, id int) (group.Group, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if g, ok := repo.db.groups[id]; ok {
		return *g, nil
	}
	return group.Group{}, group.ErrNotFound
}

func (repo *groupRepository) UpdateGroup(ctx context.Context, grp group.Group) (group.Group, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.groups[grp.ID]; !ok {
		return group.Group{}, group.ErrNotFound
	}
	if err := repo.checkRefs(grp); err != nil {
		return group.Group{}, err
	}
	if err := repo.checkName(grp.FacultyID, grp.Name, grp.ID); err != nil {
		return group.Group{}, err
	}
	repo.db.groups[grp.ID] = &grp
	return grp, nil
}

func (repo *groupRepository) DeleteGroup(ctx context.Context, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.groups[id]; !ok {
		return group.ErrNotFound
	}
	for _, st := range repo.db.students {
		if st.GroupID == id {
			return group.ErrInUse
		}
	}
	delete(repo.db.groups, id)
	return nil
}
