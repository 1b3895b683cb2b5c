package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/trezcool/register/core"
	"github.com/trezcool/register/storage/database/migrations"
)

func init() {
	sqlx.BindDriver(core.EngineSQLite, sqlx.QUESTION)
}

func postgresURL(dbName string, admin bool, conf *core.Config) string {
	user := url.UserPassword(conf.Database.User, conf.Database.Password)
	if admin && conf.Database.AdminUser != "" {
		user = url.UserPassword(conf.Database.AdminUser, conf.Database.AdminPassword)
	}

	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   "postgres",
		User:     user,
		Host:     conf.Database.Address(),
		Path:     dbName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// sqliteDSN enables foreign keys on every connection.
func sqliteDSN(path string) string {
	q := make(url.Values)
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Set("_time_format", "sqlite")
	return path + "?" + q.Encode()
}

// Open opens the database of the configured engine.
func Open(conf *core.Config) (*sqlx.DB, error) {
	if conf.Database.IsSQLite() {
		db, err := sqlx.Open(core.EngineSQLite, sqliteDSN(conf.Database.Path))
		if err != nil {
			return nil, errors.Wrap(err, "opening sqlite database")
		}
		// a single writer: transactions never wait on each other's locks
		db.SetMaxOpenConns(1)
		return db, nil
	}

	db, err := sqlx.Open(core.EnginePostgres, postgresURL(conf.Database.Name, false, conf))
	if err != nil {
		return nil, errors.Wrap(err, "opening postgres database")
	}
	if conf.Database.MaxOpenConns > 0 {
		db.SetMaxOpenConns(conf.Database.MaxOpenConns)
	}
	return db, nil
}

// Ping waits for the database to be ready. Waits 100ms longer between each attempt.
func Ping(ctx context.Context, db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "DB ping")
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}
	return core.ClassifyStoreError(err, "DB ping timeout")
}

func exists(db *sql.DB, query string, args ...interface{}) (bool, error) {
	var found bool
	err := db.QueryRow(query, args...).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return found, err
}

func createAppUser(db *sql.DB, conf *core.Config) error {
	if conf.Database.User == "" {
		return nil
	}

	found, err := exists(db, "SELECT true FROM pg_roles WHERE rolname = $1", conf.Database.User)
	if err != nil {
		return errors.Wrap(err, "checking app user")
	}
	if !found {
		q := fmt.Sprintf(
			"CREATE USER %s CREATEDB ENCRYPTED PASSWORD %s",
			quoteIdent(conf.Database.User), quoteLiteral(conf.Database.Password),
		)
		if _, err = db.Exec(q); err != nil {
			return errors.Wrap(err, "creating app user")
		}
	}
	return nil
}

func createDB(db *sql.DB, conf *core.Config) error {
	found, err := exists(db, "SELECT true FROM pg_database WHERE datname = $1", conf.Database.Name)
	if err != nil {
		return errors.Wrap(err, "checking DB")
	}
	if !found {
		if _, err = db.Exec("CREATE DATABASE " + quoteIdent(conf.Database.Name)); err != nil {
			return errors.Wrap(err, "creating database")
		}
	}
	return nil
}

// CreateIfNotExist bootstraps the PostgreSQL app user and database. SQLite files are created on open.
func CreateIfNotExist(ctx context.Context, conf *core.Config) error {
	if conf.Database.IsSQLite() {
		return nil
	}

	// connect as admin
	admin, err := sqlx.Open(core.EnginePostgres, postgresURL("postgres", true, conf))
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = admin.Close() }()

	if err = Ping(ctx, admin); err != nil {
		return errors.Wrap(err, "pinging database")
	}
	if err = createAppUser(admin.DB, conf); err != nil {
		return err
	}

	// create DB as app user
	app, err := sqlx.Open(core.EnginePostgres, postgresURL("postgres", false, conf))
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = app.Close() }()
	return createDB(app.DB, conf)
}

// RunMigrations runs a goose command ("up", "down", "status", ...) against the embedded migrations.
func RunMigrations(ctx context.Context, db *sqlx.DB, conf *core.Config, command string, args ...string) error {
	dialect := "postgres"
	if conf.Database.IsSQLite() {
		dialect = "sqlite3"
	}
	if err := goose.SetDialect(dialect); err != nil {
		return errors.Wrap(err, "setting migrations dialect")
	}
	goose.SetBaseFS(migrations.FS)

	if err := goose.RunContext(ctx, command, db.DB, ".", args...); err != nil {
		return errors.Wrapf(err, "running migrations %q", command)
	}
	return nil
}

// Migrate applies all pending migrations.
func Migrate(ctx context.Context, db *sqlx.DB, conf *core.Config) error {
	return RunMigrations(ctx, db, conf, "up")
}

// SetLogger routes goose's output to logger.
func SetLogger(logger core.Logger) {
	goose.SetLogger(gooseLogger{logger})
}

type gooseLogger struct {
	logger core.Logger
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Fatal(fmt.Sprintf(format, v...))
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}
