package inmemdb

import (
	"context"

	"github.com/ShinzTer/phys-diary-sub000/core/fitness"
)

type fitnessRepository struct {
	db *DB
}

var _ fitness.Repository = (*fitnessRepository)(nil) // interface compliance check

func NewFitnessRepository(db *DB) fitness.Repository {
	return &fitnessRepository{db: db}
}

// checkRecordRefs mirrors the foreign keys shared by the record tables. Callers hold the lock.
func (db *DB) checkRecordRefs(studentID, periodID int) error {
	if _, ok := db.students[studentID]; !ok {
		return fitness.ErrUnknownStudent
	}
	if _, ok := db.periods[periodID]; !ok {
		return fitness.ErrUnknownPeriod
	}
	return nil
}

func matchRecord(filter *fitness.QueryFilter, studentID, periodID int) bool {
	if filter == nil {
		return true
	}
	return (filter.StudentID == 0 || studentID == filter.StudentID) &&
		(filter.PeriodID == 0 || periodID == filter.PeriodID)
}

// Tests

func (repo *fitnessRepository) CreatePhysicalTest(ctx context.Context, pt fitness.PhysicalTest) (fitness.PhysicalTest, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if err := repo.db.checkRecordRefs(pt.StudentID, pt.PeriodID); err != nil {
		return fitness.PhysicalTest{}, err
	}
	pt.ID = repo.db.nextID("physical_tests")
	repo.db.tests[pt.ID] = &pt
	return pt, nil
}

func (repo *fitnessRepository) QueryPhysicalTests(ctx context.Context, filter *fitness.QueryFilter) ([]fitness.PhysicalTest, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	tests := make([]fitness.PhysicalTest, 0)
	for _, id := range sortedIDs(repo.db.tests) {
		pt := repo.db.tests[id]
		if matchRecord(filter, pt.StudentID, pt.PeriodID) {
			tests = append(tests, *pt)
		}
	}
	return tests, nil
}

func (repo *fitnessRepository) GetPhysicalTest(ctx context.Context, id int) (fitness.PhysicalTest, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if pt, ok := repo.db.tests[id]; ok {
		return *pt, nil
	}
	return fitness.PhysicalTest{}, fitness.ErrTestNotFound
}

func (repo *fitnessRepository) UpdatePhysicalTest(ctx context.Context, pt fitness.PhysicalTest) (fitness.PhysicalTest, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.tests[pt.ID]; !ok {
		return fitness.PhysicalTest{}, fitness.ErrTestNotFound
	}
	repo.db.tests[pt.ID] = &pt
	return pt, nil
}

func (repo *fitnessRepository) DeletePhysicalTest(ctx context.Context, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.tests[id]; !ok {
		return fitness.ErrTestNotFound
	}
	for _, r := range repo.db.results {
		if r.PhysicalTestID.Valid && r.PhysicalTestID.Int == id {
			r.PhysicalTestID.Valid, r.PhysicalTestID.Int = false, 0
		}
	}
	delete(repo.db.tests, id)
	return nil
}

// States

func (repo *fitnessRepository) CreatePhysicalState(ctx context.Context, ps fitness.PhysicalState) (fitness.PhysicalState, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if err := repo.db.checkRecordRefs(ps.StudentID, ps.PeriodID); err != nil {
		return fitness.PhysicalState{}, err
	}
	ps.ID = repo.db.nextID("physical_state")
	repo.db.states[ps.ID] = &ps
	return ps, nil
}

func (repo *fitnessRepository) QueryPhysicalStates(ctx context.Context, filter *fitness.QueryFilter) ([]fitness.PhysicalState, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	states := make([]fitness.PhysicalState, 0)
	for _, id := range sortedIDs(repo.db.states) {
		ps := repo.db.states[id]
		if matchRecord(filter, ps.StudentID, ps.PeriodID) {
			states = append(states, *ps)
		}
	}
	return states, nil
}

func (repo *fitnessRepository) GetPhysicalState(ctx context.Context, id int) (fitness.PhysicalState, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if ps, ok := repo.db.states[id]; ok {
		return *ps, nil
	}
	return fitness.PhysicalState{}, fitness.ErrStateNotFound
}

func (repo *fitnessRepository) UpdatePhysicalState(ctx context.Context, ps fitness.PhysicalState) (fitness.PhysicalState, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.states[ps.ID]; !ok {
		return fitness.PhysicalState{}, fitness.ErrStateNotFound
	}
	repo.db.states[ps.ID] = &ps
	return ps, nil
}

func (repo *fitnessRepository) DeletePhysicalState(ctx context.Context, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.states[id]; !ok {
		return fitness.ErrStateNotFound
	}
	for _, r := range repo.db.results {
		if r.PhysicalStateID.Valid && r.PhysicalStateID.Int == id {
			r.PhysicalStateID.Valid, r.PhysicalStateID.Int = false, 0
		}
	}
	delete(repo.db.states, id)
	return nil
}
