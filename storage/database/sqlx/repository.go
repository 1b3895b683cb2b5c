package sqlxrepos

import (
	"database/sql"
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/trezcool/register/core"
)

const pqForeignKeyViolation = pq.ErrorCode("23503")

// repository holds the executor used when a service does not pass its own (e.g. a transaction).
type repository struct {
	exec core.DBExecutor
}

func (repo repository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 && svcExec[0] != nil {
		return svcExec[0]
	}
	return repo.exec
}

// trapErr classifies a store error; foreign key violations mean the referenced student does not exist.
func trapErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Wrap(core.ErrNotFound, msg)
	}
	if isForeignKeyViolation(err) {
		return core.NewPersistenceError(errors.Wrapf(core.ErrStudentNotFound, "%s: %v", msg, err))
	}
	return core.ClassifyStoreError(err, msg)
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqForeignKeyViolation
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
			return true
		}
		return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(liteErr.Error(), "FOREIGN KEY")
	}
	return false
}

// where accumulates AND-ed conditions written with '?' placeholders.
type where struct {
	conds []string
	args  []interface{}
}

func (w *where) and(cond string, args ...interface{}) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}
