package inmemdb

import (
	"context"

	"github.com/ShinzTer/phys-diary-sub000/core/period"
)

type periodRepository struct {
	db *DB
}

var _ period.Repository = (*periodRepository)(nil) // interface compliance check

func NewPeriodRepository(db *DB) period.Repository {
	return &periodRepository{db: db}
}

func (repo *periodRepository) CreatePeriod(ctx context.Context, p period.Period) (period.Period, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, other := range repo.db.periods {
		if other.Label == p.Label {
			return period.Period{}, period.ErrLabelExists
		}
	}
	p.ID = repo.db.nextID("period")
	repo.db.periods[p.ID] = &p
	return p, nil
}

func (repo *periodRepository) QueryPeriods(ctx context.Context) ([]period.Period, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	periods := make([]period.Period, 0, len(repo.db.periods))
	for _, id := range sortedIDs(repo.db.periods) {
		periods = append(periods, *repo.db.periods[id])
	}
	return periods, nil
}

func (repo *periodRepository) GetPeriod(ctx context.Context, id int) (period.Period, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if p, ok := repo.db.periods[id]; ok {
		return *p, nil
	}
	return period.Period{}, period.ErrNotFound
}
