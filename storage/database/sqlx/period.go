package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/ShinzTer/phys-diary-sub000/core/period"
)

type periodRepository struct {
	db *sqlx.DB
}

var _ period.Repository = (*periodRepository)(nil) // interface compliance check

func NewPeriodRepository(db *sqlx.DB) period.Repository {
	return &periodRepository{db: db}
}

func (repo *periodRepository) CreatePeriod(ctx context.Context, p period.Period) (period.Period, error) {
	q := "INSERT INTO period (label, created_at) VALUES (:label, :created_at) RETURNING id"
	id, err := insertReturningID(ctx, repo.db, q, p)
	if err != nil {
		if e := constraintErr(err, map[string]error{"period_label_key": period.ErrLabelExists}); e != nil {
			return period.Period{}, e
		}
		return period.Period{}, errors.Wrap(err, "inserting period")
	}
	p.ID = id
	return p, nil
}

func (repo *periodRepository) QueryPeriods(ctx context.Context) ([]period.Period, error) {
	periods := make([]period.Period, 0)
	if err := repo.db.SelectContext(ctx, &periods, "SELECT id, label, created_at FROM period ORDER BY id"); err != nil {
		return nil, errors.Wrap(err, "querying periods")
	}
	return periods, nil
}

func (repo *periodRepository) GetPeriod(ctx context.Context, id int) (period.Period, error) {
	var p period.Period
	if err := repo.db.GetContext(ctx, &p, "SELECT id, label, created_at FROM period WHERE id = $1", id); err != nil {
		return period.Period{}, trapNoRowsErr(err, period.ErrNotFound, "finding period")
	}
	return p, nil
}
