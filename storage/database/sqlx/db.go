// Package sqlxrepos implements every repository over postgres with sqlx.
package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// trapNoRowsErr maps psql "no rows" err to notFound
func trapNoRowsErr(err, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

func pqError(err error) (*pq.Error, bool) {
	pqErr, ok := errors.Cause(err).(*pq.Error)
	return pqErr, ok
}

// constraintErr maps a violated constraint to a domain error; it returns nil for other errors.
func constraintErr(err error, byConstraint map[string]error) error {
	if pqErr, ok := pqError(err); ok {
		if e, ok := byConstraint[pqErr.Constraint]; ok {
			return e
		}
	}
	return nil
}

func isForeignKeyViolation(err error) bool {
	pqErr, ok := pqError(err)
	return ok && pqErr.Code == foreignKeyViolation
}

// conditions builds a WHERE clause with `?` bindvars; queries are rebound before execution.
type conditions struct {
	clauses []string
	args    []interface{}
}

func (c *conditions) add(clause string, args ...interface{}) {
	c.clauses = append(c.clauses, clause)
	c.args = append(c.args, args...)
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// selectIn expands slice args (IN (?)) then runs a select query.
func selectIn(ctx context.Context, db *sqlx.DB, dest interface{}, query string, args ...interface{}) error {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return err
	}
	return db.SelectContext(ctx, dest, db.Rebind(query), args...)
}

// insertReturningID runs a named INSERT ... RETURNING id.
func insertReturningID(ctx context.Context, db *sqlx.DB, query string, arg interface{}) (int, error) {
	stmt, err := db.PrepareNamedContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer func() { _ = stmt.Close() }()

	var id int
	if err = stmt.GetContext(ctx, &id, arg); err != nil {
		return 0, err
	}
	return id, nil
}

// namedUpdate runs a named UPDATE and returns notFound when no row matched.
func namedUpdate(ctx context.Context, db *sqlx.DB, query string, arg interface{}, notFound error) error {
	res, err := db.NamedExecContext(ctx, query, arg)
	if err != nil {
		return err
	}
	return checkAffected(res, notFound)
}

func checkAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "counting affected rows")
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// deleteByID deletes a row of table and returns notFound when no row matched.
func deleteByID(ctx context.Context, db *sqlx.DB, table string, id int, notFound error) error {
	res, err := db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return err
	}
	return checkAffected(res, notFound)
}
