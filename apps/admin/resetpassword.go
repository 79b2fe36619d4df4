package main

import (
	"context"

	"github.com/ShinzTer/phys-diary-sub000/core"
	"github.com/ShinzTer/phys-diary-sub000/core/user"
)

func (cli *commandLine) resetPassword(uname, pwd string) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{UsernameOrEmail: []string{uname, uname}})
	if err != nil {
		return err
	}
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}
	usr.UpdatedAt = core.NowUTC()
	_, err = cli.usrRepo.UpdateUser(ctx, usr)
	return err
}
