package sqlxrepos_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/ShinzTer/phys-diary-sub000/core"
	"github.com/ShinzTer/phys-diary-sub000/core/faculty"
	"github.com/ShinzTer/phys-diary-sub000/core/group"
	"github.com/ShinzTer/phys-diary-sub000/core/journal"
	"github.com/ShinzTer/phys-diary-sub000/core/period"
	"github.com/ShinzTer/phys-diary-sub000/core/sport"
	"github.com/ShinzTer/phys-diary-sub000/core/student"
	"github.com/ShinzTer/phys-diary-sub000/core/user"
	"github.com/ShinzTer/phys-diary-sub000/storage/database"
	sqlxrepos "github.com/ShinzTer/phys-diary-sub000/storage/database/sqlx"
)

// openTestDB connects to TEST_DATABASE_URL (eg. postgres://u:p@localhost/test_physdiary?sslmode=disable)
// and migrates it; tests are skipped without it.
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.OpenURL(dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Ping(context.Background(), db))
	require.NoError(t, database.Migrate(db))
	_, err = db.Exec(`TRUNCATE users, faculty, period RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return db
}

func TestRepositories(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := core.NowUTC()

	usrRepo := sqlxrepos.NewUserRepository(db)
	facRepo := sqlxrepos.NewFacultyRepository(db)
	grpRepo := sqlxrepos.NewGroupRepository(db)
	stdRepo := sqlxrepos.NewStudentRepository(db)
	perRepo := sqlxrepos.NewPeriodRepository(db)
	sptRepo := sqlxrepos.NewSportRepository(db)
	jnlRepo := sqlxrepos.NewJournalRepository(db)

	// users
	usr, err := usrRepo.CreateUser(ctx, user.User{
		Name: "Student", Username: "student1", Role: user.RoleStudent, IsActive: true,
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	_, err = usrRepo.CreateUser(ctx, user.User{Name: "Other", Username: "student1", Role: user.RoleStudent, CreatedAt: now, UpdatedAt: now})
	assert.Equal(t, user.ErrUsernameExists, err)
	_, err = usrRepo.CreateUser(ctx, user.User{Name: "No email", Username: "student2", Role: user.RoleStudent, CreatedAt: now, UpdatedAt: now})
	assert.NoError(t, err, "blank emails are stored as NULL")

	got, err := usrRepo.GetUser(ctx, user.GetFilter{UsernameOrEmail: []string{"student1", ""}})
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)
	assert.Equal(t, "", got.Email)
	_, err = usrRepo.GetUser(ctx, user.GetFilter{ID: "not-a-uuid"})
	assert.Equal(t, user.ErrNotFound, err)

	users, err := usrRepo.QueryUsers(ctx, &user.QueryFilter{Roles: []user.Role{user.RoleStudent}}, []core.DBOrdering{{Field: "name", Ascending: true}})
	require.NoError(t, err)
	assert.Len(t, users, 2)

	// academy
	fac, err := facRepo.CreateFaculty(ctx, faculty.Faculty{Name: "Physics", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	assert.Equal(t, faculty.ErrNameExists, facRepo.CheckNameUniqueness(ctx, "physics"))
	assert.NoError(t, facRepo.CheckNameUniqueness(ctx, "physics", fac.ID))

	grp, err := grpRepo.CreateGroup(ctx, group.Group{Name: "P-1", FacultyID: fac.ID, Course: 1, CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	std, err := stdRepo.CreateStudent(ctx, student.Student{
		UserID: usr.ID, GroupID: grp.ID, FullName: "Student", Gender: student.GenderFemale,
		BirthDate:    null.TimeFrom(time.Date(2003, 4, 5, 0, 0, 0, 0, time.UTC)),
		MedicalGroup: student.MedicalGroupBasic, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	_, err = stdRepo.CreateStudent(ctx, student.Student{UserID: usr.ID, GroupID: grp.ID, FullName: "Twice", CreatedAt: now, UpdatedAt: now})
	assert.Equal(t, student.ErrProfileExists, err)
	assert.Equal(t, faculty.ErrInUse, facRepo.DeleteFaculty(ctx, fac.ID))
	assert.Equal(t, group.ErrInUse, grpRepo.DeleteGroup(ctx, grp.ID))

	per, err := perRepo.CreatePeriod(ctx, period.Period{Label: period.Semester1, CreatedAt: now})
	require.NoError(t, err)
	_, err = perRepo.CreatePeriod(ctx, period.Period{Label: period.Semester1, CreatedAt: now})
	assert.Equal(t, period.ErrLabelExists, err)

	// records
	var last sport.SportResult
	for _, v := range []string{"2", "5"} {
		last, err = sptRepo.CreateSportResult(ctx, sport.SportResult{
			StudentID: std.ID, PeriodID: per.ID, BasketballFreethrow: core.NewMeasurement(v),
			CreatedBy: null.StringFrom(usr.ID), CreatedAt: now, UpdatedAt: now,
		})
		require.NoError(t, err)
	}
	results, err := sptRepo.QuerySportResults(ctx, &sport.QueryFilter{StudentID: std.ID})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.False(t, results[0].Swimming25m.Valid)

	report := sport.BuildReport(std.ID, per.ID, results)
	assert.Equal(t, 10, report[0].Score)

	res, err := jnlRepo.CreateResult(ctx, journal.Result{StudentID: std.ID, PeriodID: per.ID, SportResultID: null.IntFrom(last.ID), CreatedAt: now})
	require.NoError(t, err)
	require.NoError(t, sptRepo.DeleteSportResult(ctx, last.ID))
	res, err = jnlRepo.GetResult(ctx, res.ID)
	require.NoError(t, err)
	assert.False(t, res.SportResultID.Valid)

	// cascades
	require.NoError(t, usrRepo.DeleteUsers(ctx, usr.ID))
	_, err = stdRepo.GetStudent(ctx, student.GetFilter{ID: std.ID})
	assert.Equal(t, student.ErrNotFound, err)
	results, err = sptRepo.QuerySportResults(ctx, &sport.QueryFilter{StudentID: std.ID})
	require.NoError(t, err)
	assert.Empty(t, results)
}
