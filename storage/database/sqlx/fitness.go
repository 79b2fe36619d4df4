package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/ShinzTer/phys-diary-sub000/core/fitness"
)

const (
	physicalTestValues = "push_ups, leg_hold, tapping_test, running_in_place, half_squat, pull_ups, plank, forward_bend, long_jump"
	physicalTestParams = ":push_ups, :leg_hold, :tapping_test, :running_in_place, :half_squat, :pull_ups, :plank, :forward_bend, :long_jump"
	physicalTestSet    = `push_ups = :push_ups, leg_hold = :leg_hold, tapping_test = :tapping_test,
		running_in_place = :running_in_place, half_squat = :half_squat, pull_ups = :pull_ups,
		plank = :plank, forward_bend = :forward_bend, long_jump = :long_jump`

	physicalStateValues = "height, weight, chest_circumference, vital_capacity, hand_dynamometry, " +
		"resting_pulse, blood_pressure, stange_test, genchi_test, ruffier_index"
	physicalStateParams = ":height, :weight, :chest_circumference, :vital_capacity, :hand_dynamometry, " +
		":resting_pulse, :blood_pressure, :stange_test, :genchi_test, :ruffier_index"
	physicalStateSet = `height = :height, weight = :weight, chest_circumference = :chest_circumference,
		vital_capacity = :vital_capacity, hand_dynamometry = :hand_dynamometry, resting_pulse = :resting_pulse,
		blood_pressure = :blood_pressure, stange_test = :stange_test, genchi_test = :genchi_test,
		ruffier_index = :ruffier_index`

	recordColumns = "id, student_id, period_id, created_by, created_at, updated_at"
	recordParams  = ":student_id, :period_id, :created_by, :created_at, :updated_at"
)

type fitnessRepository struct {
	db *sqlx.DB
}

var _ fitness.Repository = (*fitnessRepository)(nil) // interface compliance check

func NewFitnessRepository(db *sqlx.DB) fitness.Repository {
	return &fitnessRepository{db: db}
}

// recordRefErr maps the foreign key violations shared by the record tables.
func recordRefErr(table string, err error, msg string) error {
	if e := constraintErr(err, map[string]error{
		table + "_student_id_fkey": fitness.ErrUnknownStudent,
		table + "_period_id_fkey":  fitness.ErrUnknownPeriod,
	}); e != nil {
		return e
	}
	return errors.Wrap(err, msg)
}

// recordFilter renders the student/period filter of the record tables.
func recordFilter(studentID, periodID int) conditions {
	var cond conditions
	if studentID != 0 {
		cond.add("student_id = ?", studentID)
	}
	if periodID != 0 {
		cond.add("period_id = ?", periodID)
	}
	return cond
}

// Tests

func (repo *fitnessRepository) CreatePhysicalTest(ctx context.Context, pt fitness.PhysicalTest) (fitness.PhysicalTest, error) {
	q := "INSERT INTO physical_tests (student_id, period_id, created_by, created_at, updated_at, " + physicalTestValues + ") " +
		"VALUES (" + recordParams + ", " + physicalTestParams + ") RETURNING id"
	id, err := insertReturningID(ctx, repo.db, q, pt)
	if err != nil {
		return fitness.PhysicalTest{}, recordRefErr("physical_tests", err, "inserting physical test")
	}
	pt.ID = id
	return pt, nil
}

func (repo *fitnessRepository) QueryPhysicalTests(ctx context.Context, filter *fitness.QueryFilter) ([]fitness.PhysicalTest, error) {
	if filter == nil {
		filter = new(fitness.QueryFilter)
	}
	cond := recordFilter(filter.StudentID, filter.PeriodID)

	tests := make([]fitness.PhysicalTest, 0)
	q := repo.db.Rebind("SELECT " + recordColumns + ", " + physicalTestValues + " FROM physical_tests" + cond.where() + " ORDER BY id")
	if err := repo.db.SelectContext(ctx, &tests, q, cond.args...); err != nil {
		return nil, errors.Wrap(err, "querying physical tests")
	}
	return tests, nil
}

func (repo *fitnessRepository) GetPhysicalTest(ctx context.Context, id int) (fitness.PhysicalTest, error) {
	var pt fitness.PhysicalTest
	q := "SELECT " + recordColumns + ", " + physicalTestValues + " FROM physical_tests WHERE id = $1"
	if err := repo.db.GetContext(ctx, &pt, q, id); err != nil {
		return fitness.PhysicalTest{}, trapNoRowsErr(err, fitness.ErrTestNotFound, "finding physical test")
	}
	return pt, nil
}

func (repo *fitnessRepository) UpdatePhysicalTest(ctx context.Context, pt fitness.PhysicalTest) (fitness.PhysicalTest, error) {
	q := "UPDATE physical_tests SET " + physicalTestSet + ", updated_at = :updated_at WHERE id = :id"
	if err := namedUpdate(ctx, repo.db, q, pt, fitness.ErrTestNotFound); err != nil {
		if err == fitness.ErrTestNotFound {
			return fitness.PhysicalTest{}, err
		}
		return fitness.PhysicalTest{}, errors.Wrap(err, "updating physical test")
	}
	return pt, nil
}

func (repo *fitnessRepository) DeletePhysicalTest(ctx context.Context, id int) error {
	if err := deleteByID(ctx, repo.db, "physical_tests", id, fitness.ErrTestNotFound); err != nil {
		if err == fitness.ErrTestNotFound {
			return err
		}
		return errors.Wrap(err, "deleting physical test")
	}
	return nil
}

// States

func (repo *fitnessRepository) CreatePhysicalState(ctx context.Context, ps fitness.PhysicalState) (fitness.PhysicalState, error) {
	q := "INSERT INTO physical_state (student_id, period_id, created_by, created_at, updated_at, " + physicalStateValues + ") " +
		"VALUES (" + recordParams + ", " + physicalStateParams + ") RETURNING id"
	id, err := insertReturningID(ctx, repo.db, q, ps)
	if err != nil {
		return fitness.PhysicalState{}, recordRefErr("physical_state", err, "inserting physical state")
	}
	ps.ID = id
	return ps, nil
}

func (repo *fitnessRepository) QueryPhysicalStates(ctx context.Context, filter *fitness.QueryFilter) ([]fitness.PhysicalState, error) {
	if filter == nil {
		filter = new(fitness.QueryFilter)
	}
	cond := recordFilter(filter.StudentID, filter.PeriodID)

	states := make([]fitness.PhysicalState, 0)
	q := repo.db.Rebind("SELECT " + recordColumns + ", " + physicalStateValues + " FROM physical_state" + cond.where() + " ORDER BY id")
	if err := repo.db.SelectContext(ctx, &states, q, cond.args...); err != nil {
		return nil, errors.Wrap(err, "querying physical states")
	}
	return states, nil
}

func (repo *fitnessRepository) GetPhysicalState(ctx context.Context, id int) (fitness.PhysicalState, error) {
	var ps fitness.PhysicalState
	q := "SELECT " + recordColumns + ", " + physicalStateValues + " FROM physical_state WHERE id = $1"
	if err := repo.db.GetContext(ctx, &ps, q, id); err != nil {
		return fitness.PhysicalState{}, trapNoRowsErr(err, fitness.ErrStateNotFound, "finding physical state")
	}
	return ps, nil
}

func (repo *fitnessRepository) UpdatePhysicalState(ctx context.Context, ps fitness.PhysicalState) (fitness.PhysicalState, error) {
	q := "UPDATE physical_state SET " + physicalStateSet + ", updated_at = :updated_at WHERE id = :id"
	if err := namedUpdate(ctx, repo.db, q, ps, fitness.ErrStateNotFound); err != nil {
		if err == fitness.ErrStateNotFound {
			return fitness.PhysicalState{}, err
		}
		return fitness.PhysicalState{}, errors.Wrap(err, "updating physical state")
	}
	return ps, nil
}

func (repo *fitnessRepository) DeletePhysicalState(ctx context.Context, id int) error {
	if err := deleteByID(ctx, repo.db, "physical_state", id, fitness.ErrStateNotFound); err != nil {
		if err == fitness.ErrStateNotFound {
			return err
		}
		return errors.Wrap(err, "deleting physical state")
	}
	return nil
}
