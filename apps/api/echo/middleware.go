package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ShinzTer/phys-diary-sub000/core"
	"github.com/ShinzTer/phys-diary-sub000/core/student"
	"github.com/ShinzTer/phys-diary-sub000/core/user"
)

var (
	contextStudentKey = "student"

	errInvalidQueryID = errors.New("must be a valid ID")
)

// rolesMiddleware lets through the users holding one of roles.
func rolesMiddleware(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}
			if usr.HasAnyRole(roles...) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

func adminMiddleware() echo.MiddlewareFunc {
	return rolesMiddleware(user.RoleAdmin)
}

func staffMiddleware() echo.MiddlewareFunc {
	return rolesMiddleware(user.RoleAdmin, user.RoleTeacher)
}

// getContextStudent returns the student profile of the context user.
// ok is false for admins and teachers; students without a profile get errHttpForbidden.
func (s *Server) getContextStudent(ctx echo.Context) (st student.Student, ok bool, err error) {
	usr, err := getContextUser(ctx)
	if err != nil {
		return student.Student{}, false, errors.Wrap(err, "getting context user")
	}
	if !usr.IsStudent() {
		return student.Student{}, false, nil
	}
	if cached, ok := ctx.Get(contextStudentKey).(student.Student); ok {
		return cached, true, nil
	}

	st, err = s.deps.StudentSvc.GetByUserID(ctx.Request().Context(), usr.ID)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return student.Student{}, false, errHttpForbidden
		}
		return student.Student{}, false, errors.Wrap(err, "finding student by user")
	}
	ctx.Set(contextStudentKey, st)
	return st, true, nil
}

// checkStudentAccess lets staff access any student; students only access themselves.
// Reads of foreign records answer errHttpNotFound, writes errHttpForbidden.
func (s *Server) checkStudentAccess(ctx echo.Context, studentID int, write bool) error {
	st, isStudent, err := s.getContextStudent(ctx)
	if err != nil {
		return err
	}
	if !isStudent || st.ID == studentID {
		return nil
	}
	if write {
		return errHttpForbidden
	}
	return errHttpNotFound
}

// paramID parses the integer path param `name`; invalid IDs cannot match anything.
func paramID(ctx echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil || id < 1 {
		return 0, errHttpNotFound
	}
	return id, nil
}

// queryID parses the integer query param `name`; blank gives 0.
func queryID(ctx echo.Context, name string) (int, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, core.NewFieldError(name, errInvalidQueryID)
	}
	return id, nil
}

// notFoundOr turns the notFound sentinel into errHttpNotFound and wraps any other error.
func notFoundOr(err, notFound error, msg string) error {
	if errors.Cause(err) == notFound {
		return errHttpNotFound
	}
	return errors.Wrap(err, msg)
}
