package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/ShinzTer/phys-diary-sub000/core"
	logsvc "github.com/ShinzTer/phys-diary-sub000/services/logger"
	"github.com/ShinzTer/phys-diary-sub000/storage/database"
	"github.com/ShinzTer/phys-diary-sub000/storage/database/inmemdb"
	sqlxrepos "github.com/ShinzTer/phys-diary-sub000/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	logger.Enable(false)

	cli := commandLine{conf: conf}
	if conf.Database.Engine == core.EngineMemory {
		cli.usrRepo = inmemdb.NewUserRepository(inmemdb.Open())
	} else if len(os.Args) < 2 || os.Args[1] != "createdb" {
		db, err := database.Open(conf)
		if err != nil {
			logger.Fatal("opening database", err)
		}
		defer func() { _ = db.Close() }()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = database.Ping(ctx, db)
		cancel()
		if err != nil {
			logger.Fatal("pinging database", err)
		}
		cli.db = db
		cli.usrRepo = sqlxrepos.NewUserRepository(db)
	}

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("admin command failed: "+err.Error(), err)
		}
		os.Exit(1)
	}
}
