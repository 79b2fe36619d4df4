// Package inmemdb implements every repository over mutex-guarded maps.
// Rows are copied in and out; foreign keys behave like the SQL schema
// (restricted parents, cascaded children, nulled links).
package inmemdb

import (
	"sort"
	"sync"

	"github.com/ShinzTer/phys-diary-sub000/core/faculty"
	"github.com/ShinzTer/phys-diary-sub000/core/fitness"
	"github.com/ShinzTer/phys-diary-sub000/core/group"
	"github.com/ShinzTer/phys-diary-sub000/core/journal"
	"github.com/ShinzTer/phys-diary-sub000/core/period"
	"github.com/ShinzTer/phys-diary-sub000/core/sport"
	"github.com/ShinzTer/phys-diary-sub000/core/student"
	"github.com/ShinzTer/phys-diary-sub000/core/teacher"
	"github.com/ShinzTer/phys-diary-sub000/core/user"
)

// DB holds every table behind a single lock so that cascades see a consistent state.
type DB struct {
	sync.RWMutex

	users     map[string]*user.User
	faculties map[int]*faculty.Faculty
	teachers  map[int]*teacher.Teacher
	groups    map[int]*group.Group
	students  map[int]*student.Student
	periods   map[int]*period.Period
	tests     map[int]*fitness.PhysicalTest
	states    map[int]*fitness.PhysicalState
	sports    map[int]*sport.SportResult
	results   map[int]*journal.Result

	seq map[string]int
}

func Open() *DB {
	return &DB{
		users:     make(map[string]*user.User),
		faculties: make(map[int]*faculty.Faculty),
		teachers:  make(map[int]*teacher.Teacher),
		groups:    make(map[int]*group.Group),
		students:  make(map[int]*student.Student),
		periods:   make(map[int]*period.Period),
		tests:     make(map[int]*fitness.PhysicalTest),
		states:    make(map[int]*fitness.PhysicalState),
		sports:    make(map[int]*sport.SportResult),
		results:   make(map[int]*journal.Result),
		seq:       make(map[string]int),
	}
}

// Close is a no-op; DB satisfies io.Closer like *sqlx.DB.
func (db *DB) Close() error { return nil }

// nextID returns the next serial of table. Callers hold the write lock.
func (db *DB) nextID(table string) int {
	db.seq[table]++
	return db.seq[table]
}

// sortedIDs returns the keys of a table in creation order.
func sortedIDs[V any](table map[int]V) []int {
	ids := make([]int, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Cascades. Callers hold the write lock.

func (db *DB) deleteStudentRows(studentID int) {
	for id, r := range db.results {
		if r.StudentID == studentID {
			delete(db.results, id)
		}
	}
	for id, r := range db.tests {
		if r.StudentID == studentID {
			delete(db.tests, id)
		}
	}
	for id, r := range db.states {
		if r.StudentID == studentID {
			delete(db.states, id)
		}
	}
	for id, r := range db.sports {
		if r.StudentID == studentID {
			delete(db.sports, id)
		}
	}
	delete(db.students, studentID)
}

func (db *DB) deleteTeacherRow(teacherID int) {
	for _, g := range db.groups {
		if g.TeacherID.Valid && g.TeacherID.Int == teacherID {
			g.TeacherID.Valid = false
			g.TeacherID.Int = 0
		}
	}
	delete(db.teachers, teacherID)
}
