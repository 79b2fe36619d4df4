package tests

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShinzTer/phys-diary-sub000/core/faculty"
	"github.com/ShinzTer/phys-diary-sub000/core/period"
	"github.com/ShinzTer/phys-diary-sub000/core/student"
	"github.com/ShinzTer/phys-diary-sub000/core/user"
	testutil "github.com/ShinzTer/phys-diary-sub000/tests"
)

func itoa(id int) string { return strconv.Itoa(id) }

func Test_facultyApi(t *testing.T) {
	env := setup(t)
	a := env.createAcademy(t)
	empty := testutil.CreateFaculty(t, env.facRepo, "Биология")

	adminToken := env.getToken(t, a.admin)
	heroToken := env.getToken(t, a.heroUsr)
	inUse := marshallObj(t, map[string]string{"message": faculty.ErrInUse.Error()})

	runTests(t, env, []httpTest{
		{name: "Auth required", path: "/api/faculties", wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingSession)},
		{name: "list (any role)", path: "/api/faculties", token: heroToken, wantData: marshallList(t, empty, a.faculty)},
		{name: "retrieve", path: "/api/faculties/" + itoa(a.faculty.ID), token: heroToken, wantData: marshallObj(t, a.faculty)},
		{name: "retrieve (unknown)", path: "/api/faculties/999", token: heroToken, wantCode: http.StatusNotFound, wantData: marshallObj(t, errNotFound)},
		{name: "retrieve (invalid id)", path: "/api/faculties/lol", token: heroToken, wantCode: http.StatusNotFound, wantData: marshallObj(t, errNotFound)},
		{
			name: "create (admin only)", method: http.MethodPost, path: "/api/faculties", token: heroToken,
			body: []byte(`{"name": "Химия"}`), wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden),
		},
		{
			name: "create (blank name)", method: http.MethodPost, path: "/api/faculties", token: adminToken,
			body: []byte(`{"name": "   "}`), wantCode: http.StatusBadRequest,
			wantData: validationErr(t, map[string]string{"name": "this field is required"}),
		},
		{name: "create", method: http.MethodPost, path: "/api/faculties", token: adminToken, body: []byte(`{"name": "Химия"}`), wantCode: http.StatusCreated},
		{
			name: "delete (in use)", method: http.MethodDelete, path: "/api/faculties/" + itoa(a.faculty.ID), token: adminToken,
			wantCode: http.StatusBadRequest, wantData: inUse,
		},
		{name: "delete", method: http.MethodDelete, path: "/api/faculties/" + itoa(empty.ID), token: adminToken, wantCode: http.StatusNoContent},
		{name: "delete (gone)", method: http.MethodDelete, path: "/api/faculties/" + itoa(empty.ID), token: adminToken, wantCode: http.StatusNotFound},
	})
}

func Test_teacherApi(t *testing.T) {
	env := setup(t)
	a := env.createAcademy(t)
	newcomer := testutil.CreateUser(t, env.usrRepo, "Newcomer", "newcomer", "newcomer@test.ru", "", user.RoleTeacher, true)

	adminToken := env.getToken(t, a.admin)
	newTeacher := func(usr user.User) []byte {
		return marshallObj(t, map[string]interface{}{"user_id": usr.ID, "faculty_id": a.faculty.ID, "full_name": usr.Name})
	}

	runTests(t, env, []httpTest{
		{name: "staff only", path: "/api/teachers", token: env.getToken(t, a.heroUsr), wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden)},
		{name: "list", path: "/api/teachers", token: env.getToken(t, a.teacherUsr), wantData: marshallList(t, a.teacher)},
		{
			name: "create (not a teacher)", method: http.MethodPost, path: "/api/teachers", token: adminToken, body: newTeacher(a.heroUsr),
			wantCode: http.StatusBadRequest, wantData: validationErr(t, map[string]string{"user_id": "user must have the teacher role"}),
		},
		{
			name: "create (profile exists)", method: http.MethodPost, path: "/api/teachers", token: adminToken, body: newTeacher(a.teacherUsr),
			wantCode: http.StatusBadRequest, wantData: validationErr(t, map[string]string{"user_id": "this user already has a teacher profile"}),
		},
		{name: "create", method: http.MethodPost, path: "/api/teachers", token: adminToken, body: newTeacher(newcomer), wantCode: http.StatusCreated},
	})
}

func Test_groupApi(t *testing.T) {
	env := setup(t)
	a := env.createAcademy(t)

	adminToken := env.getToken(t, a.admin)
	teacherToken := env.getToken(t, a.teacherUsr)

	runTests(t, env, []httpTest{
		{name: "retrieve", path: "/api/groups/" + itoa(a.group.ID), token: teacherToken, wantData: marshallObj(t, a.group)},
		{
			name: "create (teacher)", method: http.MethodPost, path: "/api/groups", token: teacherToken,
			body: []byte(`{"name": "ФК-102", "faculty_id": 1, "course": 1}`), wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden),
		},
		{
			name: "create (unknown faculty)", method: http.MethodPost, path: "/api/groups", token: adminToken,
			body: []byte(`{"name": "ФК-102", "faculty_id": 999, "course": 1}`), wantCode: http.StatusBadRequest,
			wantData: validationErr(t, map[string]string{"faculty_id": "faculty does not exist"}),
		},
		{
			name: "create", method: http.MethodPost, path: "/api/groups", token: adminToken,
			body: marshallObj(t, map[string]interface{}{"name": "ФК-102", "faculty_id": a.faculty.ID, "course": 2}), wantCode: http.StatusCreated,
		},
		{
			name: "delete (in use)", method: http.MethodDelete, path: "/api/groups/" + itoa(a.group.ID), token: adminToken,
			wantCode: http.StatusBadRequest, wantData: marshallObj(t, map[string]string{"message": "group still has students"}),
		},
	})
}

func Test_studentApi(t *testing.T) {
	env := setup(t)
	a := env.createAcademy(t)
	freshman := testutil.CreateUser(t, env.usrRepo, "Freshman", "freshman", "freshman@test.ru", "", user.RoleStudent, true)
	orphan := testutil.CreateUser(t, env.usrRepo, "Orphan", "orphan", "orphan@test.ru", "", user.RoleStudent, true)

	adminToken := env.getToken(t, a.admin)
	heroToken := env.getToken(t, a.heroUsr)
	newStudent := func(usr user.User) []byte {
		return marshallObj(t, student.NewStudent{
			UserID: usr.ID, GroupID: a.group.ID, FullName: usr.Name, Gender: student.GenderMale,
			BirthDate: "2004-05-17", MedicalGroup: student.MedicalGroupPreparatory,
		})
	}

	runTests(t, env, []httpTest{
		{name: "list (staff only)", path: "/api/students", token: heroToken, wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden)},
		{name: "list", path: "/api/students", token: env.getToken(t, a.teacherUsr), wantData: marshallList(t, a.hero, a.rival)},
		{name: "medical groups", path: "/api/students/medical-groups", token: heroToken, wantData: marshallObj(t, student.MedicalGroups)},
		{name: "retrieve self", path: "/api/students/" + itoa(a.hero.ID), token: heroToken, wantData: marshallObj(t, a.hero)},
		{name: "retrieve other", path: "/api/students/" + itoa(a.rival.ID), token: heroToken, wantCode: http.StatusNotFound, wantData: marshallObj(t, errNotFound)},
		{
			name: "student without profile", path: "/api/students/" + itoa(a.hero.ID), token: env.getToken(t, orphan),
			wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden),
		},
		{
			name: "create (not a student)", method: http.MethodPost, path: "/api/students", token: adminToken, body: newStudent(a.teacherUsr),
			wantCode: http.StatusBadRequest, wantData: validationErr(t, map[string]string{"user_id": "user must have the student role"}),
		},
		{
			name: "create (profile exists)", method: http.MethodPost, path: "/api/students", token: adminToken, body: newStudent(a.heroUsr),
			wantCode: http.StatusBadRequest, wantData: validationErr(t, map[string]string{"user_id": "this user already has a student profile"}),
		},
		{name: "create", method: http.MethodPost, path: "/api/students", token: adminToken, body: newStudent(freshman), wantCode: http.StatusCreated},
		{
			name: "update (student)", method: http.MethodPut, path: "/api/students/" + itoa(a.hero.ID), token: heroToken,
			body: []byte(`{"full_name": "Super Hero"}`), wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden),
		},
		{name: "delete", method: http.MethodDelete, path: "/api/students/" + itoa(a.rival.ID), token: adminToken, wantCode: http.StatusNoContent},
		{name: "deleted", path: "/api/students/" + itoa(a.rival.ID), token: adminToken, wantCode: http.StatusNotFound},
	})
}

func Test_periodApi(t *testing.T) {
	env := setup(t)
	a := env.createAcademy(t)
	testutil.CreatePeriod(t, env.periodRepo, period.Course1Start)

	adminToken := env.getToken(t, a.admin)
	runTests(t, env, []httpTest{
		{
			name: "create (admin only)", method: http.MethodPost, path: "/api/periods", token: env.getToken(t, a.teacherUsr),
			body: []byte(`{"label": "semester_2"}`), wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden),
		},
		{name: "create (unknown label)", method: http.MethodPost, path: "/api/periods", token: adminToken, body: []byte(`{"label": "semester_42"}`), wantCode: http.StatusBadRequest},
		{name: "create", method: http.MethodPost, path: "/api/periods", token: adminToken, body: []byte(`{"label": "semester_2"}`), wantCode: http.StatusCreated},
		{
			name: "create (duplicate)", method: http.MethodPost, path: "/api/periods", token: adminToken, body: []byte(`{"label": "semester_2"}`),
			wantCode: http.StatusBadRequest, wantData: validationErr(t, map[string]string{"label": period.ErrLabelExists.Error()}),
		},
		{name: "labels", path: "/api/periods/labels", token: env.getToken(t, a.heroUsr), wantData: marshallObj(t, period.LabelOptions())},
	})

	// listed in chronological order, whatever the creation order
	req, rec := env.newAuthRequest(http.MethodGet, "/api/periods", env.getToken(t, a.heroUsr))
	env.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var periods []period.Period
	decode(t, rec, &periods)
	labels := make([]period.Label, 0, len(periods))
	for _, p := range periods {
		labels = append(labels, p.Label)
	}
	assert.Equal(t, []period.Label{period.Course1Start, period.Semester1, period.Semester2}, labels)
}
