package core

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type (
	// DBExecutor is satisfied by both *sqlx.DB and *sqlx.Tx.
	DBExecutor interface {
		sqlx.ExtContext
	}

	DB interface {
		DBExecutor

		BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
	}

	DBTransactor interface {
		DBExecutor

		Commit() error
		Rollback() error
	}
)

var _ DBTransactor = (*sqlx.Tx)(nil) // interface compliance check

// RunInTx runs fn inside a single transaction: committed if fn succeeds, rolled back otherwise.
// The transaction's connection is always released before returning.
func RunInTx(ctx context.Context, db DB, fn func(exec DBExecutor) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return ClassifyStoreError(err, "beginning transaction")
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Wrapf(err, "rolling back: %v", rbErr)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return ClassifyStoreError(err, "committing transaction")
	}
	return nil
}
