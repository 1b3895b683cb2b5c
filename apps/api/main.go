package main

import (
	"context"
	"expvar"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	echoapi "github.com/trezcool/register/apps/api/echo"
	"github.com/trezcool/register/core"
	"github.com/trezcool/register/core/attendance"
	"github.com/trezcool/register/core/classregister"
	"github.com/trezcool/register/core/incident"
	"github.com/trezcool/register/core/student"
	logsvc "github.com/trezcool/register/services/logger"
	"github.com/trezcool/register/storage/cache"
	"github.com/trezcool/register/storage/database"
	sqlxrepos "github.com/trezcool/register/storage/database/sqlx"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "api: %+v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	mode := "prod"
	if conf.Debug {
		mode = "dev"
	}
	zl, err := logsvc.NewZapLogger(mode)
	if err != nil {
		return errors.Wrap(err, "setting up logger")
	}
	defer zl.Sync()
	logger := logsvc.NewRollbarLogger(zl.With("service", "api"), conf)
	database.SetLogger(logsvc.NewRollbarLogger(zl.With("service", "db"), conf))

	ctx := context.Background()

	// set up DB
	db, err := setUpDB(ctx, conf)
	if err != nil {
		return errors.Wrap(err, "setting up database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("closing database failed", "error", err)
		}
	}()

	// set up cache (optional)
	var summaryCache attendance.SummaryCache
	if conf.Cache.RedisAddr != "" {
		rdb, err := cache.NewRedisClient(ctx, conf)
		if err != nil {
			logger.Warn("summary cache disabled", "error", err)
		} else {
			defer func() { _ = rdb.Close() }()
			summaryCache = cache.NewRedisSummaryCache(rdb, conf.Cache.TTL)
		}
	}

	// =========================================================================
	// Initialize App

	logger.Info("application initializing", "version", conf.Build, "env", conf.Env)
	defer logger.Info("application stopped")

	validate, translator := core.NewValidator()
	attendance.InitValidators(validate, translator)
	incident.InitValidators(validate, translator)

	studentRepo := sqlxrepos.NewStudentRepository(db)
	attendanceRepo := sqlxrepos.NewAttendanceRepository(db)

	deps := &echoapi.Deps{
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
		StudentSvc: student.NewService(db, studentRepo, validate, logger),
		Ledger:     attendance.NewLedger(db, attendanceRepo, validate, logger, conf),
		Summarizer: attendance.NewSummarizer(attendance.SummarizerDeps{
			DB:        db,
			Roster:    studentRepo,
			Records:   attendanceRepo,
			Summaries: sqlxrepos.NewSummaryRepository(db),
			Cache:     summaryCache,
			Validate:  validate,
			Logger:    logger,
			Conf:      conf,
		}),
		IncidentSvc: incident.NewService(sqlxrepos.NewIncidentRepository(db), validate, logger),
		RegisterSvc: classregister.NewService(sqlxrepos.NewClassRegisterRepository(db), validate, logger),
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	server := echoapi.NewServer(conf.Server.Host, shutdown, deps)

	// =========================================================================
	// Start Debug & API Services
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	debugSrv := &http.Server{Addr: conf.Server.DebugHost, Handler: http.DefaultServeMux}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := debugSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("debug server closed", "error", err)
		}
		return nil
	})
	g.Go(func() error {
		server.Start()
		return nil
	})

	// =========================================================================
	// Shutdown

	g.Go(func() error {
		var runErr error
		select {
		case runErr = <-server.Errors():
			logger.Error("server error", "error", runErr)
		case sig := <-server.ShutdownSignal():
			logger.Info("start shutdown", "signal", sig.String())
		case <-gctx.Done():
		}

		// give outstanding requests a deadline for completion
		sctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		_ = debugSrv.Shutdown(sctx)
		// asking listener to shut down and shed load
		if err := server.Shutdown(sctx); err != nil {
			logger.Error("could not stop server gracefully", "error", err)
			if err = server.Close(); err != nil {
				return errors.Wrap(err, "could not force stop server")
			}
		}
		return runErr
	})

	return g.Wait()
}

func setUpDB(ctx context.Context, conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(ctx, conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}
	if err = database.Ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err = database.Migrate(ctx, db, conf); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
