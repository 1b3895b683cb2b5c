package main

import (
	"context"

	"github.com/trezcool/register/storage/database"
)

var gooseRunFunc = database.RunMigrations // mockable

func (cli *commandLine) migrate(ctx context.Context, args []string) error {
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(ctx, cli.db, cli.conf, args[0], arguments...)
}
