package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ShinzTer/phys-diary-sub000/core"
	"github.com/ShinzTer/phys-diary-sub000/core/student"
	"github.com/ShinzTer/phys-diary-sub000/core/teacher"
	"github.com/ShinzTer/phys-diary-sub000/core/user"
)

type sessionApi struct {
	s *Server
}

func registerSessionAPI(public, authed *echo.Group, s *Server) {
	api := sessionApi{s: s}

	// un-authed endpoints
	// TODO: rate limit `/login`, `/password-reset` & `/password-reset-confirm`
	public.POST("/login", api.login)
	public.POST("/logout", api.logout)
	public.POST("/password-reset", api.resetPassword)
	public.POST("/password-reset-confirm", api.confirmPasswordReset)

	authed.GET("/user", api.current)
	authed.POST("/session/refresh", api.refresh)
}

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	PasswordResetRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	// SessionResponse describes the logged-in user along with their profile, if any.
	SessionResponse struct {
		User    user.User        `json:"user"`
		Teacher *teacher.Teacher `json:"teacher,omitempty"`
		Student *student.Student `json:"student,omitempty"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return validate.Struct(lr)
}

func (pr *PasswordResetRequest) Validate(validate *validator.Validate) error {
	pr.Email = core.CleanString(pr.Email, true /* lower */)
	return validate.Struct(pr)
}

func (api *sessionApi) newSessionResponse(ctx echo.Context, usr user.User) (SessionResponse, error) {
	reqCtx := ctx.Request().Context()
	resp := SessionResponse{User: usr}

	switch usr.Role {
	case user.RoleTeacher:
		t, err := api.s.deps.TeacherSvc.GetByUserID(reqCtx, usr.ID)
		if err == nil {
			resp.Teacher = &t
		} else if errors.Cause(err) != teacher.ErrNotFound {
			return resp, errors.Wrap(err, "finding teacher by user")
		}
	case user.RoleStudent:
		st, err := api.s.deps.StudentSvc.GetByUserID(reqCtx, usr.ID)
		if err == nil {
			resp.Student = &st
		} else if errors.Cause(err) != student.ErrNotFound {
			return resp, errors.Wrap(err, "finding student by user")
		}
	}
	return resp, nil
}

func (api *sessionApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.s.deps.Validate); err != nil {
		return err
	}

	usr, err := api.s.authenticate(ctx, data.Username, data.Password)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	token, err := GenerateToken(api.s.deps.Conf, GetUserClaims(api.s.deps.Conf, usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	ctx.SetCookie(NewSessionCookie(api.s.deps.Conf, token))

	resp, err := api.newSessionResponse(ctx, usr)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *sessionApi) logout(ctx echo.Context) error {
	ctx.SetCookie(expiredSessionCookie(api.s.deps.Conf))
	return ctx.NoContent(http.StatusNoContent)
}

func (api *sessionApi) current(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	resp, err := api.newSessionResponse(ctx, usr)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *sessionApi) refresh(ctx echo.Context) error {
	token, err := api.s.refreshToken(ctx)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	ctx.SetCookie(NewSessionCookie(api.s.deps.Conf, token))
	return ctx.NoContent(http.StatusNoContent)
}

func (api *sessionApi) resetPassword(ctx echo.Context) error {
	var data PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	if err := data.Validate(api.s.deps.Validate); err != nil {
		return err
	}

	err := api.s.deps.UserSvc.RequestPasswordReset(ctx.Request().Context(), data.Email)
	if !(err == nil || errors.Cause(err) == user.ErrNotFound) {
		// do not return errors to attackers
		api.s.deps.Logger.Error("requesting password reset", errors.Wrap(err, "requesting password reset"))
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{
		Success: "If the email address supplied is associated with an active account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	})
}

func (api *sessionApi) confirmPasswordReset(ctx echo.Context) error {
	var data user.ResetUserPassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetUserPassword")
	}
	if err := data.Validate(api.s.deps.Validate); err != nil {
		return err
	}

	if _, err := api.s.deps.UserSvc.ResetPassword(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "resetting password")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Password has been reset with the new password."})
}
