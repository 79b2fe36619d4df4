package inmemdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/ShinzTer/phys-diary-sub000/core"
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

type fixture struct {
	db  *DB
	usr user.Repository
	fac faculty.Repository
	tch teacher.Repository
	grp group.Repository
	std student.Repository
	per period.Repository
	fit fitness.Repository
	spt sport.Repository
	jnl journal.Repository

	teacher teacher.Teacher
	group   group.Group
	student student.Student
	period  period.Period
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := Open()
	f := &fixture{
		db:  db,
		usr: NewUserRepository(db),
		fac: NewFacultyRepository(db),
		tch: NewTeacherRepository(db),
		grp: NewGroupRepository(db),
		std: NewStudentRepository(db),
		per: NewPeriodRepository(db),
		fit: NewFitnessRepository(db),
		spt: NewSportRepository(db),
		jnl: NewJournalRepository(db),
	}

	tchUsr, err := f.usr.CreateUser(ctx, user.User{Name: "T", Username: "teach", Role: user.RoleTeacher})
	require.NoError(t, err)
	stdUsr, err := f.usr.CreateUser(ctx, user.User{Name: "S", Username: "stud", Role: user.RoleStudent})
	require.NoError(t, err)

	fac, err := f.fac.CreateFaculty(ctx, faculty.Faculty{Name: "Physics"})
	require.NoError(t, err)
	f.teacher, err = f.tch.CreateTeacher(ctx, teacher.Teacher{UserID: tchUsr.ID, FacultyID: fac.ID, FullName: "T"})
	require.NoError(t, err)
	f.group, err = f.grp.CreateGroup(ctx, group.Group{Name: "P-1", FacultyID: fac.ID, TeacherID: null.IntFrom(f.teacher.ID), Course: 1})
	require.NoError(t, err)
	f.student, err = f.std.CreateStudent(ctx, student.Student{UserID: stdUsr.ID, GroupID: f.group.ID, FullName: "S"})
	require.NoError(t, err)
	f.period, err = f.per.CreatePeriod(ctx, period.Period{Label: period.Semester1})
	require.NoError(t, err)
	return f
}

func TestUserRepository_Uniqueness(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.usr.CheckUsernameUniqueness(ctx, "TEACH", "")
	assert.Equal(t, user.ErrUsernameExists, err)

	usr, err := f.usr.GetUser(ctx, user.GetFilter{Username: "teach"})
	require.NoError(t, err)
	assert.NoError(t, f.usr.CheckUsernameUniqueness(ctx, "teach", "", usr))

	_, err = f.usr.CreateUser(ctx, user.User{Name: "X", Username: "teach"})
	assert.Equal(t, user.ErrUsernameExists, err)

	// blank emails never collide
	_, err = f.usr.CreateUser(ctx, user.User{Name: "Y", Username: "other"})
	assert.NoError(t, err)
}

func TestUserRepository_QueryOrdering(t *testing.T) {
	ctx := context.Background()
	db := Open()
	repo := NewUserRepository(db)

	now := time.Now().UTC()
	for i, name := range []string{"b", "c", "a"} {
		_, err := repo.CreateUser(ctx, user.User{Name: name, Username: name + "_user", CreatedAt: now.Add(time.Duration(i) * time.Minute)})
		require.NoError(t, err)
	}

	users, err := repo.QueryUsers(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b"}, userNames(users), "newest first by default")

	users, err = repo.QueryUsers(ctx, &user.QueryFilter{}, []core.DBOrdering{{Field: "name", Ascending: true}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, userNames(users))

	users, err = repo.QueryUsers(ctx, &user.QueryFilter{Search: "C_US"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, userNames(users))
}

func userNames(users []user.User) []string {
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Name)
	}
	return names
}

func TestDeleteRestrictions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	assert.Equal(t, faculty.ErrInUse, f.fac.DeleteFaculty(ctx, f.group.FacultyID))
	assert.Equal(t, group.ErrInUse, f.grp.DeleteGroup(ctx, f.group.ID))
	assert.Equal(t, faculty.ErrNotFound, f.fac.DeleteFaculty(ctx, 999))
}

func TestDeleteTeacher_UnassignsGroups(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.tch.DeleteTeacher(ctx, f.teacher.ID))

	grp, err := f.grp.GetGroup(ctx, f.group.ID)
	require.NoError(t, err)
	assert.False(t, grp.TeacherID.Valid)
}

func TestDeleteUser_CascadesProfilesAndRecords(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	sr, err := f.spt.CreateSportResult(ctx, sport.SportResult{StudentID: f.student.ID, PeriodID: f.period.ID})
	require.NoError(t, err)
	pt, err := f.fit.CreatePhysicalTest(ctx, fitness.PhysicalTest{StudentID: f.student.ID, PeriodID: f.period.ID})
	require.NoError(t, err)
	_, err = f.jnl.CreateResult(ctx, journal.Result{StudentID: f.student.ID, PeriodID: f.period.ID, SportResultID: null.IntFrom(sr.ID)})
	require.NoError(t, err)

	require.NoError(t, f.usr.DeleteUsers(ctx, f.student.UserID))

	_, err = f.std.GetStudent(ctx, student.GetFilter{ID: f.student.ID})
	assert.Equal(t, student.ErrNotFound, err)
	_, err = f.spt.GetSportResult(ctx, sr.ID)
	assert.Equal(t, sport.ErrNotFound, err)
	_, err = f.fit.GetPhysicalTest(ctx, pt.ID)
	assert.Equal(t, fitness.ErrTestNotFound, err)
	results, err := f.jnl.QueryResults(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, results)

	// the group can go now
	assert.NoError(t, f.grp.DeleteGroup(ctx, f.group.ID))
}

func TestDeleteRecord_NullsResultLinks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	sr, err := f.spt.CreateSportResult(ctx, sport.SportResult{StudentID: f.student.ID, PeriodID: f.period.ID})
	require.NoError(t, err)
	res, err := f.jnl.CreateResult(ctx, journal.Result{StudentID: f.student.ID, PeriodID: f.period.ID, SportResultID: null.IntFrom(sr.ID)})
	require.NoError(t, err)

	require.NoError(t, f.spt.DeleteSportResult(ctx, sr.ID))

	res, err = f.jnl.GetResult(ctx, res.ID)
	require.NoError(t, err)
	assert.False(t, res.SportResultID.Valid)
}

func TestRecords_CreationOrderAndRefs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, v := range []string{"3", "5", "4"} {
		_, err := f.spt.CreateSportResult(ctx, sport.SportResult{
			StudentID:           f.student.ID,
			PeriodID:            f.period.ID,
			BasketballFreethrow: core.NewMeasurement(v),
		})
		require.NoError(t, err)
	}

	results, err := f.spt.QuerySportResults(ctx, &sport.QueryFilter{StudentID: f.student.ID})
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, v := range []string{"3", "5", "4"} {
		assert.Equal(t, v, results[i].BasketballFreethrow.Raw())
	}

	_, err = f.spt.CreateSportResult(ctx, sport.SportResult{StudentID: 999, PeriodID: f.period.ID})
	assert.Equal(t, fitness.ErrUnknownStudent, err)
	_, err = f.fit.CreatePhysicalState(ctx, fitness.PhysicalState{StudentID: f.student.ID, PeriodID: 999})
	assert.Equal(t, fitness.ErrUnknownPeriod, err)
}

func TestProfiles_OnePerUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.std.CreateStudent(ctx, student.Student{UserID: f.student.UserID, GroupID: f.group.ID})
	assert.Equal(t, student.ErrProfileExists, err)
	_, err = f.tch.CreateTeacher(ctx, teacher.Teacher{UserID: f.teacher.UserID, FacultyID: f.group.FacultyID})
	assert.Equal(t, teacher.ErrProfileExists, err)
	_, err = f.per.CreatePeriod(ctx, period.Period{Label: period.Semester1})
	assert.Equal(t, period.ErrLabelExists, err)
}
