package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/ShinzTer/phys-diary-sub000/core/sport"
)

const (
	sportValues = "basketball_freethrow, basketball_dribble, basketball_two_steps, volleyball_serve, " +
		"volleyball_solo_pass, volleyball_pair_pass, swimming_25m, swimming_50m, swimming_100m, running_100m, running_2000m"
	sportParams = ":basketball_freethrow, :basketball_dribble, :basketball_two_steps, :volleyball_serve, " +
		":volleyball_solo_pass, :volleyball_pair_pass, :swimming_25m, :swimming_50m, :swimming_100m, :running_100m, :running_2000m"
	sportSet = `basketball_freethrow = :basketball_freethrow, basketball_dribble = :basketball_dribble,
		basketball_two_steps = :basketball_two_steps, volleyball_serve = :volleyball_serve,
		volleyball_solo_pass = :volleyball_solo_pass, volleyball_pair_pass = :volleyball_pair_pass,
		swimming_25m = :swimming_25m, swimming_50m = :swimming_50m, swimming_100m = :swimming_100m,
		running_100m = :running_100m, running_2000m = :running_2000m`
)

type sportRepository struct {
	db *sqlx.DB
}

var _ sport.Repository = (*sportRepository)(nil) // interface compliance check

func NewSportRepository(db *sqlx.DB) sport.Repository {
	return &sportRepository{db: db}
}

func (repo *sportRepository) CreateSportResult(ctx context.Context, r sport.SportResult) (sport.SportResult, error) {
	q := "INSERT INTO sport_results (student_id, period_id, created_by, created_at, updated_at, " + sportValues + ") " +
		"VALUES (" + recordParams + ", " + sportParams + ") RETURNING id"
	id, err := insertReturningID(ctx, repo.db, q, r)
	if err != nil {
		return sport.SportResult{}, recordRefErr("sport_results", err, "inserting sport result")
	}
	r.ID = id
	return r, nil
}

// QuerySportResults lists results by id: the report reducer keeps the last row of a period.
func (repo *sportRepository) QuerySportResults(ctx context.Context, filter *sport.QueryFilter) ([]sport.SportResult, error) {
	if filter == nil {
		filter = new(sport.QueryFilter)
	}
	cond := recordFilter(filter.StudentID, filter.PeriodID)

	results := make([]sport.SportResult, 0)
	q := repo.db.Rebind("SELECT " + recordColumns + ", " + sportValues + " FROM sport_results" + cond.where() + " ORDER BY id")
	if err := repo.db.SelectContext(ctx, &results, q, cond.args...); err != nil {
		return nil, errors.Wrap(err, "querying sport results")
	}
	return results, nil
}

func (repo *sportRepository) GetSportResult(ctx context.Context, id int) (sport.SportResult, error) {
	var r sport.SportResult
	q := "SELECT " + recordColumns + ", " + sportValues + " FROM sport_results WHERE id = $1"
	if err := repo.db.GetContext(ctx, &r, q, id); err != nil {
		return sport.SportResult{}, trapNoRowsErr(err, sport.ErrNotFound, "finding sport result")
	}
	return r, nil
}

func (repo *sportRepository) UpdateSportResult(ctx context.Context, r sport.SportResult) (sport.SportResult, error) {
	q := "UPDATE sport_results SET " + sportSet + ", updated_at = :updated_at WHERE id = :id"
	if err := namedUpdate(ctx, repo.db, q, r, sport.ErrNotFound); err != nil {
		if err == sport.ErrNotFound {
			return sport.SportResult{}, err
		}
		return sport.SportResult{}, errors.Wrap(err, "updating sport result")
	}
	return r, nil
}

func (repo *sportRepository) DeleteSportResult(ctx context.Context, id int) error {
	if err := deleteByID(ctx, repo.db, "sport_results", id, sport.ErrNotFound); err != nil {
		if err == sport.ErrNotFound {
			return err
		}
		return errors.Wrap(err, "deleting sport result")
	}
	return nil
}
