package main

import (
	"context"

	"github.com/pressly/goose/v3"

	"github.com/trezcool/studydesk/storage/database"
)

var gooseRunFunc = goose.RunContext // mockable

func (cli *commandLine) migrate(args []string) error {
	if err := database.SetUpGoose(cli.engine, cli.gooseLogger); err != nil {
		return err
	}
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(context.Background(), args[0], cli.db.DB, database.MigrationsDir(cli.engine), arguments...)
}
