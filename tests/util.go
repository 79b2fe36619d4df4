// Package testutil creates fixtures straight through the repositories.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/ShinzTer/phys-diary-sub000/core"
	"github.com/ShinzTer/phys-diary-sub000/core/faculty"
	"github.com/ShinzTer/phys-diary-sub000/core/group"
	"github.com/ShinzTer/phys-diary-sub000/core/period"
	"github.com/ShinzTer/phys-diary-sub000/core/sport"
	"github.com/ShinzTer/phys-diary-sub000/core/student"
	"github.com/ShinzTer/phys-diary-sub000/core/teacher"
	"github.com/ShinzTer/phys-diary-sub000/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	role user.Role,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()
	tstamp := core.NowUTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:        user.NewID(),
		Name:      name,
		Username:  uname,
		Email:     email,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateFaculty(t *testing.T, repo faculty.Repository, name string) faculty.Faculty {
	t.Helper()
	now := core.NowUTC()
	fac, err := repo.CreateFaculty(context.Background(), faculty.Faculty{Name: name, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		t.Fatalf("CreateFaculty() failed: %v", err)
	}
	return fac
}

func CreateTeacher(t *testing.T, repo teacher.Repository, usr user.User, facultyID int) teacher.Teacher {
	t.Helper()
	now := core.NowUTC()
	tchr, err := repo.CreateTeacher(context.Background(), teacher.Teacher{
		UserID:    usr.ID,
		FacultyID: facultyID,
		FullName:  usr.Name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateTeacher() failed: %v", err)
	}
	return tchr
}

func CreateGroup(t *testing.T, repo group.Repository, name string, facultyID int, teacherID null.Int) group.Group {
	t.Helper()
	now := core.NowUTC()
	grp, err := repo.CreateGroup(context.Background(), group.Group{
		Name:      name,
		FacultyID: facultyID,
		TeacherID: teacherID,
		Course:    1,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateGroup() failed: %v", err)
	}
	return grp
}

func CreateStudent(t *testing.T, repo student.Repository, usr user.User, groupID int) student.Student {
	t.Helper()
	now := core.NowUTC()
	st, err := repo.CreateStudent(context.Background(), student.Student{
		UserID:       usr.ID,
		GroupID:      groupID,
		FullName:     usr.Name,
		Gender:       student.GenderFemale,
		MedicalGroup: student.MedicalGroupBasic,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return st
}

func CreatePeriod(t *testing.T, repo period.Repository, label period.Label) period.Period {
	t.Helper()
	p, err := repo.CreatePeriod(context.Background(), period.Period{Label: label, CreatedAt: core.NowUTC()})
	if err != nil {
		t.Fatalf("CreatePeriod() failed: %v", err)
	}
	return p
}

// CreateSportResult stores r as is, stamping its timestamps.
func CreateSportResult(t *testing.T, repo sport.Repository, r sport.SportResult) sport.SportResult {
	t.Helper()
	now := core.NowUTC()
	r.CreatedAt, r.UpdatedAt = now, now
	r, err := repo.CreateSportResult(context.Background(), r)
	if err != nil {
		t.Fatalf("CreateSportResult() failed: %v", err)
	}
	return r
}
