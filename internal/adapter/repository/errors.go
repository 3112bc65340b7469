package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ashwiniraykar1997/speech-to-text-app/internal/domain/entities"
)

// typeMismatchCodes are the SQLSTATEs postgres raises for a value of the wrong type
var typeMismatchCodes = map[string]bool{
	"22P02": true, // invalid_text_representation
	"42804": true, // datatype_mismatch
	"22003": true, // numeric_value_out_of_range
	"42883": true, // undefined_function (integer = text)
}

// typeMismatchPatterns match drivers that don't expose an error code
var typeMismatchPatterns = []string{
	"datatype mismatch",
	"incorrect integer value",
	"invalid input syntax for type",
	"operator does not exist",
}

var connectionPatterns = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"i/o timeout",
	"no route to host",
	"network is unreachable",
	"driver: bad connection",
	"database is locked",
	"sql: database is closed",
}

// IsTypeMismatch reports whether err is a column type incompatibility
func IsTypeMismatch(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, entities.ErrSchemaTypeMismatch) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return typeMismatchCodes[pgErr.Code]
	}
	return containsAny(err, typeMismatchPatterns)
}

func isConnectionError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	return containsAny(err, connectionPatterns)
}

// classify wraps a driver error in the matching domain sentinel
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, entities.ErrStoreRejected), errors.Is(err, entities.ErrStoreUnreachable):
		return err
	case IsTypeMismatch(err):
		return fmt.Errorf("%w: %v", entities.ErrSchemaTypeMismatch, err)
	case isConnectionError(err):
		return fmt.Errorf("%w: %v", entities.ErrStoreUnreachable, err)
	default:
		return fmt.Errorf("%w: %v", entities.ErrStoreRejected, err)
	}
}

func containsAny(err error, patterns []string) bool {
	msg := strings.ToLower(err.Error())
	for _, p := range patterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
