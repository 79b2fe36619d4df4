package inmemdb

import (
	"context"

	"github.com/ShinzTer/phys-diary-sub000/core/journal"
)

type journalRepository struct {
	db *DB
}

var _ journal.Repository = (*journalRepository)(nil) // interface compliance check

func NewJournalRepository(db *DB) journal.Repository {
	return &journalRepository{db: db}
}

func (repo *journalRepository) CreateResult(ctx context.Context, r journal.Result) (journal.Result, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if err := repo.db.checkRecordRefs(r.StudentID, r.PeriodID); err != nil {
		return journal.Result{}, err
	}
	r.ID = repo.db.nextID("result")
	repo.db.results[r.ID] = &r
	return r, nil
}

func (repo *journalRepository) QueryResults(ctx context.Context, filter *journal.QueryFilter) ([]journal.Result, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if filter == nil {
		filter = new(journal.QueryFilter)
	}

	results := make([]journal.Result, 0)
	for _, id := range sortedIDs(repo.db.results) {
		r := repo.db.results[id]
		if (filter.StudentID == 0 || r.StudentID == filter.StudentID) &&
			(filter.PeriodID == 0 || r.PeriodID == filter.PeriodID) {
			results = append(results, *r)
		}
	}
	return results, nil
}

func (repo *journalRepository) GetResult(ctx context.Context, id int) (journal.Result, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if r, ok := repo.db.results[id]; ok {
		return *r, nil
	}
	return journal.Result{}, journal.ErrNotFound
}

func (repo *journalRepository) DeleteResult(ctx context.Context, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.results[id]; !ok {
		return journal.ErrNotFound
	}
	delete(repo.db.results, id)
	return nil
}
