package inmemdb

import (
	"context"

	"github.com/ShinzTer/phys-diary-sub000/core/sport"
)

type sportRepository struct {
	db *DB
}

var _ sport.Repository = (*sportRepository)(nil) // interface compliance check

func NewSportRepository(db *DB) sport.Repository {
	return &sportRepository{db: db}
}

func (repo *sportRepository) CreateSportResult(ctx context.Context, r sport.SportResult) (sport.SportResult, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if err := repo.db.checkRecordRefs(r.StudentID, r.PeriodID); err != nil {
		return sport.SportResult{}, err
	}
	r.ID = repo.db.nextID("sport_results")
	repo.db.sports[r.ID] = &r
	return r, nil
}

func (repo *sportRepository) QuerySportResults(ctx context.Context, filter *sport.QueryFilter) ([]sport.SportResult, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if filter == nil {
		filter = new(sport.QueryFilter)
	}

	results := make([]sport.SportResult, 0)
	for _, id := range sortedIDs(repo.db.sports) {
		r := repo.db.sports[id]
		if (filter.StudentID == 0 || r.StudentID == filter.StudentID) &&
			(filter.PeriodID == 0 || r.PeriodID == filter.PeriodID) {
			results = append(results, *r)
		}
	}
	return results, nil
}

func (repo *sportRepository) GetSportResult(ctx context.Context, id int) (sport.SportResult, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if r, ok := repo.db.sports[id]; ok {
		return *r, nil
	}
	return sport.SportResult{}, sport.ErrNotFound
}

func (repo *sportRepository) UpdateSportResult(ctx context.Context, r sport.SportResult) (sport.SportResult, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.sports[r.ID]; !ok {
		return sport.SportResult{}, sport.ErrNotFound
	}
	repo.db.sports[r.ID] = &r
	return r, nil
}

func (repo *sportRepository) DeleteSportResult(ctx context.Context, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.sports[id]; !ok {
		return sport.ErrNotFound
	}
	for _, res := range repo.db.results {
		if res.SportResultID.Valid && res.SportResultID.Int == id {
			res.SportResultID.Valid, res.SportResultID.Int = false, 0
		}
	}
	delete(repo.db.sports, id)
	return nil
}
