package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/trezcool/register/core"
	"github.com/trezcool/register/core/attendance"
	logsvc "github.com/trezcool/register/services/logger"
	"github.com/trezcool/register/storage/cache"
	"github.com/trezcool/register/storage/database"
)

func main() {
	conf := core.NewConfig()

	zl, err := logsvc.NewZapLogger("dev")
	if err != nil {
		fmt.Fprintf(os.Stderr, "admin: setting up logger: %v\n", err)
		os.Exit(1)
	}
	logger := zl.With("service", "admin")
	database.SetLogger(logger)

	// set up DB
	ctx := context.Background()
	if err = database.CreateIfNotExist(ctx, conf); err != nil {
		logger.Fatal("creating database failed", "error", err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database failed", "error", err)
	}
	if err = database.Ping(ctx, db); err != nil {
		_ = db.Close()
		logger.Fatal("pinging database failed", "error", err)
	}

	// set up cache (optional): regenerated months must be dropped from the API's cache
	var summaryCache attendance.SummaryCache
	var rdb *goredis.Client
	if conf.Cache.RedisAddr != "" {
		if rdb, err = cache.NewRedisClient(ctx, conf); err != nil {
			logger.Warn("summary cache disabled", "error", err)
		} else {
			summaryCache = cache.NewRedisSummaryCache(rdb, conf.Cache.TTL)
		}
	}

	validate, translator := core.NewValidator()
	attendance.InitValidators(validate, translator)

	// start CLI
	cli := newCommandLine(db, conf, os.Stdout, validate, logger, summaryCache)
	err = cli.run(os.Args)
	if rdb != nil {
		_ = rdb.Close()
	}
	_ = db.Close()
	zl.Sync()

	if err != nil {
		if !errors.Is(err, errHelp) {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
