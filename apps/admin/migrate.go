package main

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var errNoDB = errors.New("no SQL database configured")

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errNoDB
	}
	return migrateFunc(cli.db, args[0], args[1:]...)
}

func (cli *commandLine) createDB() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	return createDBFunc(ctx, cli.conf)
}
