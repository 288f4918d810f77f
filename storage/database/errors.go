package database

import (
	"database/sql"
	"database/sql/driver"
	"net"
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/trezcool/studydesk/core"
	"github.com/trezcool/studydesk/core/study"
)

const (
	pqForeignKeyViolation = "23503"
	pqConnectionException = "08"
)

// TrapError maps a driver error raised while running op on the row id of entity
// to the errors of the core package. Unknown errors are returned wrapped.
func TrapError(err error, op, entity string, id int) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return core.NewNotFoundError(entity, id)
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return core.NewUnavailableError(err)
	}
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return core.NewUnavailableError(err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == pqForeignKeyViolation:
			return &core.IntegrityError{Op: op, Entity: entity, ID: id, Constraint: pqErr.Constraint, Err: err}
		case string(pqErr.Code.Class()) == pqConnectionException:
			return core.NewUnavailableError(err)
		}
	}

	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY:
			return sqliteIntegrityError(err, op, entity, id)
		case sqlite3lib.SQLITE_CONSTRAINT:
			// extended result codes off
			if strings.Contains(sqliteErr.Error(), "FOREIGN KEY") {
				return sqliteIntegrityError(err, op, entity, id)
			}
		case sqlite3lib.SQLITE_BUSY, sqlite3lib.SQLITE_CANTOPEN:
			return core.NewUnavailableError(err)
		}
	}

	return errors.Wrapf(err, "%s %s", op, entity)
}

// sqliteIntegrityError names the constraint when a single relation can explain the failure:
// SQLite does not report which foreign key failed.
func sqliteIntegrityError(err error, op, entity string, id int) error {
	integrityErr := &core.IntegrityError{Op: op, Entity: entity, ID: id, Err: err}
	if rel, ok := study.FailedRelation(op, entity); ok {
		integrityErr.Constraint = rel.Name
	}
	return integrityErr
}
