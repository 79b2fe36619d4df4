package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ShinzTer/phys-diary-sub000/core"
	"github.com/ShinzTer/phys-diary-sub000/core/user"
)

// addUser updates or creates an active user.User with the given role.
func (cli *commandLine) addUser(name, uname, email, pwd string, role user.Role) (user.User, error) {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)
	if name = core.CleanString(name, false); name == "" {
		name = uname
	}

	now := core.NowUTC()
	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{UsernameOrEmail: []string{uname, email}})
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return user.User{}, err
		}
		usr = user.User{ID: user.NewID(), CreatedAt: now}
	}
	usr.Name = name
	usr.Username = uname
	usr.Email = email
	usr.Role = role
	usr.IsActive = true
	usr.UpdatedAt = now
	if err = usr.SetPassword(pwd); err != nil {
		return user.User{}, err
	}
	return cli.usrRepo.UpdateOrCreateUser(ctx, usr)
}
