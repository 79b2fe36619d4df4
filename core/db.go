package core

import (
	"context"
	"strings"
)

// Pinger is satisfied by *sql.DB and *sqlx.DB; the in-memory store has nothing to ping.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// OrderBy renders orderings restricted to the allowed columns; unknown fields are skipped.
func OrderBy(ordering []DBOrdering, allowed ...string) string {
	list := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		for _, col := range allowed {
			if ord.Field == col {
				list = append(list, ord.String())
				break
			}
		}
	}
	return strings.Join(list, ", ")
}
