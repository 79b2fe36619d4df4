package tests

import (
	"context"
	"net/http"
	"net/mail"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/ShinzTer/phys-diary-sub000/apps/api/echo"
	"github.com/ShinzTer/phys-diary-sub000/core/user"
	emailsvc "github.com/ShinzTer/phys-diary-sub000/services/email"
	testutil "github.com/ShinzTer/phys-diary-sub000/tests"
)

func sessionCookie(env *testEnv, rec interface{ Result() *http.Response }) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == env.conf.Server.SessionCookie {
			return c
		}
	}
	return nil
}

func Test_sessionApi_login(t *testing.T) {
	env := setup(t)
	a := env.createAcademy(t)
	testutil.CreateUser(t, env.usrRepo, "N Dog", "ndog", "ndog@test.ru", testPassword, user.RoleStudent, false)

	authFailed := marshallObj(t, echoapi.ErrorResponse{Message: "authentication failed"})
	tests := []httpTest{
		{
			name: "required fields", wantCode: http.StatusBadRequest,
			wantData: validationErr(t, map[string]string{"username": "this field is required", "password": "this field is required"}),
		},
		{
			name: "unknown user", wantCode: http.StatusBadRequest, wantData: authFailed,
			body: marshallObj(t, echoapi.LoginRequest{Username: "nobody", Password: testPassword}),
		},
		{
			name: "wrong password", wantCode: http.StatusBadRequest, wantData: authFailed,
			body: marshallObj(t, echoapi.LoginRequest{Username: "hero", Password: "Wr0ng!pass"}),
		},
		{
			name: "deactivated account", wantCode: http.StatusForbidden,
			body:     marshallObj(t, echoapi.LoginRequest{Username: "ndog", Password: testPassword}),
			wantData: marshallObj(t, echoapi.ErrorResponse{Message: "account deactivated"}),
		},
		{
			name: "by username", extra: a.heroUsr,
			body: marshallObj(t, echoapi.LoginRequest{Username: " HERO ", Password: testPassword}),
		},
		{
			name: "by email", extra: a.teacherUsr,
			body: marshallObj(t, echoapi.LoginRequest{Username: "teacher@test.ru", Password: testPassword}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/login"
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			rec := env.serve(tt)
			checkCodeAndData(t, tt, rec)

			usr, ok := tt.extra.(user.User)
			if !ok {
				assert.Nil(t, sessionCookie(env, rec))
				return
			}
			cookie := sessionCookie(env, rec)
			require.NotNil(t, cookie)
			assert.NotEmpty(t, cookie.Value)
			assert.True(t, cookie.HttpOnly)

			var resp echoapi.SessionResponse
			decode(t, rec, &resp)
			assert.Equal(t, usr.ID, resp.User.ID)
			assert.True(t, resp.User.LastLogin.Valid)
			switch usr.Role {
			case user.RoleStudent:
				require.NotNil(t, resp.Student)
				assert.Equal(t, a.hero.ID, resp.Student.ID)
				assert.Nil(t, resp.Teacher)
			case user.RoleTeacher:
				require.NotNil(t, resp.Teacher)
				assert.Equal(t, a.teacher.ID, resp.Teacher.ID)
				assert.Nil(t, resp.Student)
			}
		})
	}
}

func Test_sessionApi_session(t *testing.T) {
	env := setup(t)
	a := env.createAcademy(t)
	naughty := testutil.CreateUser(t, env.usrRepo, "N Dog", "ndog", "ndog@test.ru", "", user.RoleStudent, false)
	ghost := testutil.CreateUser(t, env.usrRepo, "Ghost", "ghost", "ghost@test.ru", "", user.RoleAdmin, true)
	ghostToken := env.getToken(t, ghost)
	require.NoError(t, env.usrRepo.DeleteUsers(context.Background(), ghost.ID))

	adminToken := env.getToken(t, a.admin)
	tests := []httpTest{
		{name: "no session", path: "/api/user", wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingSession)},
		{
			name: "forged session", path: "/api/user", token: adminToken + "x", wantCode: http.StatusUnauthorized,
			wantData: marshallObj(t, echoapi.ErrorResponse{Message: "invalid or expired jwt"}),
		},
		{name: "deleted user", path: "/api/user", token: ghostToken, wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingSession)},
		{
			name: "deactivated user", path: "/api/user", token: env.getToken(t, naughty), wantCode: http.StatusForbidden,
			wantData: marshallObj(t, echoapi.ErrorResponse{Message: "account deactivated"}),
		},
		{name: "admin", path: "/api/user", token: adminToken, wantData: marshallObj(t, echoapi.SessionResponse{User: a.admin})},
		{
			name: "student", path: "/api/user", token: env.getToken(t, a.heroUsr),
			wantData: marshallObj(t, echoapi.SessionResponse{User: a.heroUsr, Student: &a.hero}),
		},
		{name: "unknown api route", path: "/api/lol", wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingSession)},
	}
	runTests(t, env, tests)
}

func Test_sessionApi_logout(t *testing.T) {
	env := setup(t)

	req, rec := env.newRequest(http.MethodPost, "/api/logout")
	env.app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	cookie := sessionCookie(env, rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.MaxAge < 0)
}

func Test_sessionApi_refresh(t *testing.T) {
	env := setup(t)
	a := env.createAcademy(t)

	now := time.Now()
	unrefreshableClaims := &echoapi.Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    env.conf.AppName,
			Subject:   a.heroUsr.ID,
			ExpiresAt: now.Add(env.conf.Server.SessionExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		OrigIssuedAt: now.Add(-2 * env.conf.Server.SessionRefreshExpirationDelta).Unix(), // older than threshold
		Username:     a.heroUsr.Username,
		Role:         a.heroUsr.Role,
	}
	unrefreshableToken, err := echoapi.GenerateToken(env.conf, unrefreshableClaims)
	require.NoError(t, err)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingSession)},
		{
			name: "Refresh period expired", token: unrefreshableToken, wantCode: http.StatusForbidden,
			wantData: marshallObj(t, echoapi.ErrorResponse{Message: "refresh has expired"}),
		},
		{name: "Session refreshed", token: env.getToken(t, a.heroUsr), wantCode: http.StatusNoContent},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/session/refresh"

		t.Run(tt.name, func(t *testing.T) {
			rec := env.serve(tt)
			if tt.wantCode != http.StatusNoContent {
				checkCodeAndData(t, tt, rec)
				return
			}
			// cannot guess new token.. just check that it's not empty
			assert.Equal(t, tt.wantCode, rec.Code)
			cookie := sessionCookie(env, rec)
			require.NotNil(t, cookie)
			assert.NotEmpty(t, cookie.Value)
		})
	}
}

func Test_sessionApi_passwordReset(t *testing.T) {
	env := setup(t)
	hero := testutil.CreateUser(t, env.usrRepo, "Hero", "hero", "hero@test.ru", testPassword, user.RoleStudent, true)
	testutil.CreateUser(t, env.usrRepo, "N Dog", "ndog", "ndog@test.ru", testPassword, user.RoleStudent, false)

	successData := marshallObj(t, echoapi.SuccessResponse{Success: "If the email address supplied is associated with an active account on this system, " +
		"an email will arrive in your inbox shortly with instructions to reset your password."})

	type extraTest struct {
		emailSent bool
		to        mail.Address
	}
	tests := []httpTest{
		{name: "required fields", wantCode: http.StatusBadRequest, wantData: validationErr(t, map[string]string{"email": "this field is required"})},
		{
			name: "invalid email", wantCode: http.StatusBadRequest, body: marshallObj(t, echoapi.PasswordResetRequest{Email: "lol"}),
			wantData: validationErr(t, map[string]string{"email": "email must be a valid email address"}),
		},
		{name: "unknown email", body: marshallObj(t, echoapi.PasswordResetRequest{Email: "lol@test.ru"}), wantData: successData, extra: extraTest{}},
		{name: "inactive account", body: marshallObj(t, echoapi.PasswordResetRequest{Email: "ndog@test.ru"}), wantData: successData, extra: extraTest{}},
		{
			name: "known email", body: marshallObj(t, echoapi.PasswordResetRequest{Email: "HERO@test.ru"}), wantData: successData,
			extra: extraTest{emailSent: true, to: mail.Address{Name: hero.Name, Address: hero.Email}},
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/password-reset"
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			emailsvc.ClearSentMessages()

			checkCodeAndData(t, tt, env.serve(tt))

			extra, ok := tt.extra.(extraTest)
			if !ok {
				return
			}
			msg, sent := emailsvc.LastSentMessage()
			require.Equal(t, extra.emailSent, sent)
			if !sent {
				return
			}
			require.Len(t, msg.To, 1)
			assert.Equal(t, extra.to, msg.To[0])
			assert.Contains(t, msg.TextContent, extra.to.Name)
			assert.Contains(t, msg.HTMLContent, extra.to.Name)
			assert.Regexp(t, resetLinkRegex, msg.TextContent)
			assert.Regexp(t, resetLinkRegex, msg.HTMLContent)
		})
	}
}

var resetLinkRegex = regexp.MustCompile(`/password-reset/([\w-]+)/([\w-]+)`)

func Test_sessionApi_confirmPasswordReset(t *testing.T) {
	env := setup(t)
	hero := testutil.CreateUser(t, env.usrRepo, "Hero", "hero", "hero@test.ru", testPassword, user.RoleStudent, true)

	// request a reset link and pick uid & token out of it
	emailsvc.ClearSentMessages()
	req, rec := env.newRequest(http.MethodPost, "/api/password-reset", marshallObj(t, echoapi.PasswordResetRequest{Email: hero.Email}))
	env.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	msg, ok := emailsvc.LastSentMessage()
	require.True(t, ok)
	match := resetLinkRegex.FindStringSubmatch(msg.TextContent)
	require.Len(t, match, 3)
	uid, token := match[1], strings.TrimSpace(match[2])

	newPwd := "N3w!Sw1mmer"
	reqMsg := "this field is required"
	tests := []httpTest{
		{
			name: "required fields", wantCode: http.StatusBadRequest,
			wantData: validationErr(t, map[string]string{"token": reqMsg, "uid": reqMsg, "password": reqMsg, "password_confirm": reqMsg}),
		},
		{
			name: "invalid pwd: min len", wantCode: http.StatusBadRequest,
			body:     marshallObj(t, user.ResetUserPassword{Token: "lol", UID: "lol", Password: "lol", PasswordConfirm: "lol"}),
			wantData: validationErr(t, map[string]string{"password": "password must contain at least 8 characters"}),
		},
		{
			name: "invalid pwd: not all numeric", wantCode: http.StatusBadRequest,
			body:     marshallObj(t, user.ResetUserPassword{Token: "lol", UID: "lol", Password: "12345678", PasswordConfirm: "12345678"}),
			wantData: validationErr(t, map[string]string{"password": "password cannot be entirely numeric"}),
		},
		{
			name: "invalid pwd: complexity", wantCode: http.StatusBadRequest,
			body:     marshallObj(t, user.ResetUserPassword{Token: "lol", UID: "lol", Password: "lol12345", PasswordConfirm: "lol12345"}),
			wantData: validationErr(t, map[string]string{"password": "password must contain at least 1 uppercase character, 1 lowercase character, 1 digit and 1 special character"}),
		},
		{
			name: "invalid uid", wantCode: http.StatusBadRequest,
			body:     marshallObj(t, user.ResetUserPassword{Token: token, UID: "bG9s", Password: newPwd, PasswordConfirm: newPwd}),
			wantData: marshallObj(t, echoapi.ErrorResponse{Message: "invalid token"}),
		},
		{
			name: "invalid token", wantCode: http.StatusBadRequest,
			body:     marshallObj(t, user.ResetUserPassword{Token: "HE4TS-sigsig-sig", UID: uid, Password: newPwd, PasswordConfirm: newPwd}),
			wantData: marshallObj(t, echoapi.ErrorResponse{Message: "invalid token"}),
		},
		{
			name: "valid token", body: marshallObj(t, user.ResetUserPassword{Token: token, UID: uid, Password: newPwd, PasswordConfirm: newPwd}),
			wantData: marshallObj(t, echoapi.SuccessResponse{Success: "Password has been reset with the new password."}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/password-reset-confirm"
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, env.serve(tt))
		})
	}

	// the new password opens a session, the old one does not
	login := func(pwd string) int {
		req, rec := env.newRequest(http.MethodPost, "/api/login", marshallObj(t, echoapi.LoginRequest{Username: hero.Username, Password: pwd}))
		env.app.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusBadRequest, login(testPassword))
	assert.Equal(t, http.StatusOK, login(newPwd))
}
