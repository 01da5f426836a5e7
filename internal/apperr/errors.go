// Package apperr holds the error taxonomy shared by repositories, usecases and handlers.
package apperr

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

type Kind int

const (
	KindInternal Kind = iota
	KindInvalid
	KindNotFound
	KindConflict
	KindTransient
	KindSchemaMismatch
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindTransient:
		return "transient"
	case KindSchemaMismatch:
		return "schema_mismatch"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Error carries a Kind alongside a human readable message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind so errors.Is(err, apperr.ErrConflict) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrInvalid        = &Error{Kind: KindInvalid}
	ErrNotFound       = &Error{Kind: KindNotFound}
	ErrConflict       = &Error{Kind: KindConflict}
	ErrTransient      = &Error{Kind: KindTransient}
	ErrSchemaMismatch = &Error{Kind: KindSchemaMismatch}
	ErrUnauthorized   = &Error{Kind: KindUnauthorized}
)

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func Invalid(format string, args ...any) *Error  { return New(KindInvalid, format, args...) }
func NotFound(format string, args ...any) *Error { return New(KindNotFound, format, args...) }
func Conflict(format string, args ...any) *Error { return New(KindConflict, format, args...) }

func Unauthorized(format string, args ...any) *Error {
	return New(KindUnauthorized, format, args...)
}

// KindOf reports the kind of err, KindInternal when it carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Postgres SQLSTATE codes we translate.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
	pgNotNullViolation     = "23502"
	pgInvalidTextRep       = "22P02"
	pgNumericOutOfRange    = "22003"
	pgUndefinedColumn      = "42703"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgAdminShutdown        = "57P01"
	pgCannotConnectNow     = "57P03"
)

// FromDB translates driver errors into the taxonomy. Errors that already carry a
// kind are returned unchanged; nil stays nil.
func FromDB(err error, msg string) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return Wrap(KindNotFound, err, msg)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Wrap(KindTransient, err, msg)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation:
			return Wrap(KindConflict, err, msg)
		case pgErr.Code == pgForeignKeyViolation:
			return Wrap(KindNotFound, err, msg)
		case pgErr.Code == pgCheckViolation, pgErr.Code == pgNotNullViolation, pgErr.Code == pgInvalidTextRep,
			pgErr.Code == pgNumericOutOfRange:
			return Wrap(KindInvalid, err, msg)
		case pgErr.Code == pgUndefinedColumn:
			return Wrap(KindSchemaMismatch, err, msg)
		case pgErr.Code == pgSerializationFailure, pgErr.Code == pgDeadlockDetected,
			pgErr.Code == pgAdminShutdown, pgErr.Code == pgCannotConnectNow,
			strings.HasPrefix(pgErr.Code, "08"):
			return Wrap(KindTransient, err, msg)
		}
		return Wrap(KindInternal, err, msg)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || pgconn.SafeToRetry(err) || errors.Is(err, sql.ErrConnDone) {
		return Wrap(KindTransient, err, msg)
	}
	return Wrap(KindInternal, err, msg)
}

// HTTPStatus maps an error to the status code handlers respond with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalid:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
