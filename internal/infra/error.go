package infra

import (
	"errors"
	"log/slog"

	"shop-order-scheduler/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

type RepositoryErrorKind string

type RepositoryError struct {
	Kind RepositoryErrorKind
	msg  string
	err  error // wrapped low-level error
}

func (e RepositoryError) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e RepositoryError) Unwrap() error {
	return e.err
}

func WrapRepoErr(slogger *slog.Logger, kind RepositoryErrorKind, msg string, err error) error {
	logArgs := []any{
		slog.String("kind", string(kind)),
	}
	if err != nil {
		logArgs = append(logArgs, slog.String("error", err.Error()))
	}

	slogger.Error("Repository error: "+msg, logArgs...)

	if err != nil {
		err = errs.Wrap(err, msg)
	}

	return RepositoryError{Kind: kind, msg: msg, err: err}
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	var e RepositoryError
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Infrastructure-specific error kinds
const (
	KindNotFound           RepositoryErrorKind = "NOT_FOUND"
	KindDBFailure          RepositoryErrorKind = "DB_FAILURE"
	KindDuplicateKey       RepositoryErrorKind = "DUPLICATE_KEY"
	KindForeignKeyViolated RepositoryErrorKind = "FOREIGN_KEY_VIOLATED"
	KindConflict           RepositoryErrorKind = "CONFLICT"
	KindUnavailable        RepositoryErrorKind = "UNAVAILABLE"
)

const (
	pgErrCodeUniqueViolation      = "23505"
	pgErrCodeForeignKeyViolation  = "23503"
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

// ClassifyPgError maps a PostgreSQL error to a repository error kind.
func ClassifyPgError(err error) RepositoryErrorKind {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return KindDBFailure
	}
	switch pgErr.Code {
	case pgErrCodeUniqueViolation:
		return KindDuplicateKey
	case pgErrCodeForeignKeyViolation:
		return KindForeignKeyViolated
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return KindConflict
	default:
		return KindDBFailure
	}
}

// IsRetryablePgError reports serialization failures and deadlocks.
func IsRetryablePgError(err error) bool {
	return ClassifyPgError(err) == KindConflict
}
