package tests

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShinzTer/phys-diary-sub000/core/user"
	testutil "github.com/ShinzTer/phys-diary-sub000/tests"
)

func Test_userApi_userQuery(t *testing.T) {
	env := setup(t)

	path := func(search, ordering string, isActive *bool, roles ...user.Role) string {
		v := make(url.Values)
		if search != "" {
			v.Add("search", search)
		}
		if ordering != "" {
			v.Add("ordering", ordering)
		}
		if isActive != nil {
			v.Add("is_active", strconv.FormatBool(*isActive))
		}
		for _, r := range roles {
			v.Add("role", string(r))
		}
		return "/api/users?" + v.Encode()
	}
	bPtr := func(b bool) *bool { return &b }

	now := time.Now()
	usr1 := testutil.CreateUser(t, env.usrRepo, "User", "awe", "awe@test.ru", "", user.RoleStudent, true, now.Add(1*time.Hour))
	usr2 := testutil.CreateUser(t, env.usrRepo, "King", "user02", "king@test.ru", "", user.RoleStudent, true, now.Add(-1*time.Hour))
	admin := testutil.CreateUser(t, env.usrRepo, "Admin", "admin", "admin@test.ru", "", user.RoleAdmin, true, now.Add(2*time.Hour))
	teacher := testutil.CreateUser(t, env.usrRepo, "Teacher", "teacher", "teacher@test.ru", "", user.RoleTeacher, true, now.Add(3*time.Hour))
	naughty := testutil.CreateUser(t, env.usrRepo, "N Dog", "ndog", "ndog@test.ru", "", user.RoleStudent, false, now)

	adminToken := env.getToken(t, admin)
	empty := marshallList(t)

	tests := []httpTest{
		{name: "Auth required", path: "/api/users", wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingSession)},
		{name: "Admin required", path: "/api/users", token: env.getToken(t, teacher), wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden)},
		{name: "Get all", path: "/api/users", token: adminToken, wantData: marshallList(t, teacher, admin, usr1, naughty, usr2)},
		// filtering
		{name: "search (unknown)", path: path("lol", "", nil), token: adminToken, wantData: empty},
		{name: "search=USE", path: path("USE", "", nil), token: adminToken, wantData: marshallList(t, usr1, usr2)},
		{name: "role (unknown)", path: path("", "", nil, "lol"), token: adminToken, wantData: empty},
		{name: "role=admin", path: path("", "", nil, user.RoleAdmin), token: adminToken, wantData: marshallList(t, admin)},
		{
			name: "role=teacher,student", path: path("", "", nil, user.RoleTeacher, user.RoleStudent),
			token: adminToken, wantData: marshallList(t, teacher, usr1, naughty, usr2),
		},
		{name: "is_active=true", path: path("", "", bPtr(true)), token: adminToken, wantData: marshallList(t, teacher, admin, usr1, usr2)},
		{name: "is_active=false", path: path("", "", bPtr(false)), token: adminToken, wantData: marshallList(t, naughty)},
		{name: "all combo (empty)", path: path("USE", "", bPtr(true), user.RoleAdmin), token: adminToken, wantData: empty},
		{name: "all combo (found)", path: path("tea", "", bPtr(true), user.RoleTeacher), token: adminToken, wantData: marshallList(t, teacher)},
		// ordering
		{
			name: "order by created_at", path: path("", "created_at", nil), token: adminToken,
			wantData: marshallList(t, usr2, naughty, usr1, admin, teacher),
		},
		{
			name: "order by is_active,-name", path: path("", "is_active,-name", nil), token: adminToken,
			wantData: marshallList(t, naughty, usr1, teacher, usr2, admin),
		},
		{
			name: "order by unknown field", path: path("", "password_hash", nil), token: adminToken,
			wantData: marshallList(t, teacher, admin, usr1, naughty, usr2),
		},
		// filtering & ordering
		{
			name: "filtering & ordering", path: path("", "name", nil, user.RoleTeacher, user.RoleStudent), token: adminToken,
			wantData: marshallList(t, usr2, naughty, teacher, usr1),
		},
	}
	runTests(t, env, tests)
}

func Test_userApi_userCreate(t *testing.T) {
	env := setup(t)
	admin := testutil.CreateUser(t, env.usrRepo, "Admin", "admin", "admin@test.ru", "", user.RoleAdmin, true)
	adminToken := env.getToken(t, admin)

	reqMsg := "this field is required"
	tests := []httpTest{
		{
			name: "required fields", wantCode: http.StatusBadRequest,
			wantData: validationErr(t, map[string]string{
				"name":             reqMsg,
				"username":         "one of username or email is required",
				"email":            "one of username or email is required",
				"role":             reqMsg,
				"password":         reqMsg,
				"password_confirm": reqMsg,
			}),
		},
		{
			name: "invalid role & username", wantCode: http.StatusBadRequest,
			body: marshallObj(t, user.NewUser{
				Name: "Hero", Username: "he ro", Role: "principal", Password: "Sw1m!Fast", PasswordConfirm: "Sw1m!Fast",
			}),
			wantData: validationErr(t, map[string]string{
				"username": "only alphanumeric characters and underscores are allowed",
				"role":     "invalid role",
			}),
		},
		{
			name: "taken username", wantCode: http.StatusBadRequest,
			body: marshallObj(t, user.NewUser{
				Name: "Hero", Username: "ADMIN", Role: user.RoleStudent, Password: "Sw1m!Fast", PasswordConfirm: "Sw1m!Fast",
			}),
			wantData: validationErr(t, map[string]string{"username": "a user with this username already exists"}),
		},
		{
			name: "too common password", wantCode: http.StatusBadRequest,
			body: marshallObj(t, user.NewUser{
				Name: "Pupil", Username: "pupil", Role: user.RoleStudent, Password: "P@$$w0rd", PasswordConfirm: "P@$$w0rd",
			}),
			wantData: validationErr(t, map[string]string{"password": "password is too common"}),
		},
		{
			name: "too common password (case insensitive)", wantCode: http.StatusBadRequest,
			body: marshallObj(t, user.NewUser{
				Name: "Pupil", Username: "pupil", Role: user.RoleStudent, Password: "Qwerty123!", PasswordConfirm: "Qwerty123!",
			}),
			wantData: validationErr(t, map[string]string{"password": "password is too common"}),
		},
		{
			name: "created", wantCode: http.StatusCreated,
			body: marshallObj(t, user.NewUser{
				Name: "Swimmer", Username: "Swimmer", Email: "swimmer@test.ru", Role: user.RoleStudent, Password: "Sw1m!Fast", PasswordConfirm: "Sw1m!Fast",
			}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/users"
		tt.token = adminToken

		t.Run(tt.name, func(t *testing.T) {
			rec := env.serve(tt)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusCreated {
				var created user.User
				decode(t, rec, &created)
				assert.Equal(t, "swimmer", created.Username)
				assert.Equal(t, user.RoleStudent, created.Role)
				assert.True(t, created.IsActive)

				stored, err := env.usrRepo.GetUser(context.Background(), user.GetFilter{ID: created.ID})
				require.NoError(t, err)
				assert.NoError(t, stored.CheckPassword("Sw1m!Fast"))
			}
		})
	}
}

func Test_userApi_userUpdate(t *testing.T) {
	env := setup(t)
	admin := testutil.CreateUser(t, env.usrRepo, "Admin", "admin", "admin@test.ru", "", user.RoleAdmin, true)
	hero := testutil.CreateUser(t, env.usrRepo, "Hero", "hero", "hero@test.ru", "", user.RoleStudent, true)
	rival := testutil.CreateUser(t, env.usrRepo, "Rival", "rival", "rival@test.ru", "", user.RoleStudent, true)

	adminToken := env.getToken(t, admin)
	heroToken := env.getToken(t, hero)
	path := func(usr user.User) string { return "/api/users/" + usr.ID }

	tests := []httpTest{
		{name: "Auth required", path: path(hero), wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingSession)},
		{name: "foreign user", path: path(rival), token: heroToken, body: []byte(`{"name": "Loser"}`), wantCode: http.StatusNotFound, wantData: marshallObj(t, errNotFound)},
		{name: "unknown user", path: "/api/users/lol", token: adminToken, body: []byte(`{"name": "Lol"}`), wantCode: http.StatusNotFound, wantData: marshallObj(t, errNotFound)},
		{name: "student cannot change role", path: path(hero), token: heroToken, body: []byte(`{"role": "admin"}`), wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden)},
		{name: "student cannot change username", path: path(hero), token: heroToken, body: []byte(`{"username": "superhero"}`), wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden)},
		{name: "admin cannot deactivate themselves", path: path(admin), token: adminToken, body: []byte(`{"is_active": false}`), wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden)},
		{name: "admin cannot demote themselves", path: path(admin), token: adminToken, body: []byte(`{"role": "teacher"}`), wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden)},
		{name: "student renames themselves", path: path(hero), token: heroToken, body: []byte(`{"name": "Super Hero"}`), extra: "Super Hero"},
		{name: "admin deactivates a student", path: path(rival), token: adminToken, body: []byte(`{"is_active": false}`), extra: "Rival"},
	}
	for _, tt := range tests {
		tt.method = http.MethodPut
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			rec := env.serve(tt)
			checkCodeAndData(t, tt, rec)

			if wantName, ok := tt.extra.(string); ok {
				var updated user.User
				decode(t, rec, &updated)
				assert.Equal(t, wantName, updated.Name)
			}
		})
	}

	stored, err := env.usrRepo.GetUser(context.Background(), user.GetFilter{ID: rival.ID})
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func Test_userApi_userDelete(t *testing.T) {
	env := setup(t)
	admin := testutil.CreateUser(t, env.usrRepo, "Admin", "admin", "admin@test.ru", "", user.RoleAdmin, true)
	hero := testutil.CreateUser(t, env.usrRepo, "Hero", "hero", "hero@test.ru", "", user.RoleStudent, true)
	rival := testutil.CreateUser(t, env.usrRepo, "Rival", "rival", "rival@test.ru", "", user.RoleStudent, true)
	naughty := testutil.CreateUser(t, env.usrRepo, "N Dog", "ndog", "ndog@test.ru", "", user.RoleStudent, true)

	adminToken := env.getToken(t, admin)
	tests := []httpTest{
		{name: "student cannot delete themselves", path: "/api/users/" + hero.ID, token: env.getToken(t, hero), wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden)},
		{name: "admin cannot delete themselves", path: "/api/users/" + admin.ID, token: adminToken, wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden)},
		{name: "deleted", path: "/api/users/" + hero.ID, token: adminToken, wantCode: http.StatusNoContent},
		{name: "gone", path: "/api/users/" + hero.ID, token: adminToken, wantCode: http.StatusNotFound, wantData: marshallObj(t, errNotFound)},
		{name: "multiple, self included", path: "/api/users?id=" + rival.ID + "&id=" + admin.ID, token: adminToken, wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden)},
		{name: "multiple", path: "/api/users?id=" + rival.ID + "&id=" + naughty.ID, token: adminToken, wantCode: http.StatusNoContent},
	}
	for _, tt := range tests {
		tt.method = http.MethodDelete

		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, env.serve(tt))
		})
	}

	users, err := env.usrRepo.QueryUsers(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, admin.ID, users[0].ID)
}

func Test_userApi_roles(t *testing.T) {
	env := setup(t)
	admin := testutil.CreateUser(t, env.usrRepo, "Admin", "admin", "admin@test.ru", "", user.RoleAdmin, true)

	runTests(t, env, []httpTest{
		{name: "roles", path: "/api/users/roles", token: env.getToken(t, admin), wantData: marshallObj(t, user.Roles)},
	})
}
