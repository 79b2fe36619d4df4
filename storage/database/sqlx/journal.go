package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/ShinzTer/phys-diary-sub000/core/journal"
)

const resultColumns = "id, student_id, period_id, physical_test_id, physical_state_id, sport_result_id, created_at"

type journalRepository struct {
	db *sqlx.DB
}

var _ journal.Repository = (*journalRepository)(nil) // interface compliance check

func NewJournalRepository(db *sqlx.DB) journal.Repository {
	return &journalRepository{db: db}
}

func (repo *journalRepository) CreateResult(ctx context.Context, r journal.Result) (journal.Result, error) {
	q := `INSERT INTO result (student_id, period_id, physical_test_id, physical_state_id, sport_result_id, created_at)
		VALUES (:student_id, :period_id, :physical_test_id, :physical_state_id, :sport_result_id, :created_at)
		RETURNING id`
	id, err := insertReturningID(ctx, repo.db, q, r)
	if err != nil {
		return journal.Result{}, recordRefErr("result", err, "inserting result")
	}
	r.ID = id
	return r, nil
}

func (repo *journalRepository) QueryResults(ctx context.Context, filter *journal.QueryFilter) ([]journal.Result, error) {
	if filter == nil {
		filter = new(journal.QueryFilter)
	}
	cond := recordFilter(filter.StudentID, filter.PeriodID)

	results := make([]journal.Result, 0)
	q := repo.db.Rebind("SELECT " + resultColumns + " FROM result" + cond.where() + " ORDER BY id")
	if err := repo.db.SelectContext(ctx, &results, q, cond.args...); err != nil {
		return nil, errors.Wrap(err, "querying results")
	}
	return results, nil
}

func (repo *journalRepository) GetResult(ctx context.Context, id int) (journal.Result, error) {
	var r journal.Result
	if err := repo.db.GetContext(ctx, &r, "SELECT "+resultColumns+" FROM result WHERE id = $1", id); err != nil {
		return journal.Result{}, trapNoRowsErr(err, journal.ErrNotFound, "finding result")
	}
	return r, nil
}

func (repo *journalRepository) DeleteResult(ctx context.Context, id int) error {
	if err := deleteByID(ctx, repo.db, "result", id, journal.ErrNotFound); err != nil {
		if err == journal.ErrNotFound {
			return err
		}
		return errors.Wrap(err, "deleting result")
	}
	return nil
}
