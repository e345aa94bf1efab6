package logging

import (
	"database/sql"
	"errors"
	"io"
	"log/slog"
)

// SafeCloseWithLogging closes c and logs a failure against the named
// resource. Response bodies, statements and the XMPP client all go through
// here.
func SafeCloseWithLogging(c io.Closer, logger *slog.Logger, resource string) {
	if c == nil {
		return
	}
	logFailure(logger, "close", resource, c.Close())
}

// SafeRollbackWithLogging rolls back tx. A transaction that already
// committed is not a failure.
func SafeRollbackWithLogging(tx interface{ Rollback() error }, logger *slog.Logger, resource string) {
	if tx == nil {
		return
	}
	err := tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return
	}
	logFailure(logger, "rollback", resource, err)
}

func logFailure(logger *slog.Logger, action, resource string, err error) {
	if err == nil {
		return
	}
	LogError(logger, action+" failed", err,
		slog.String("action", action),
		slog.String("resource", resource))
}
