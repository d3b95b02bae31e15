package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/immobiligb/immobili-api/internal/apperrors"
)

// storeErr translates a driver error into the retryable store failure.
// Nothing about the store must leak to clients, so every failure ends
// up behind apperrors.ErrStoreUnavailable; the original error stays in
// the chain for logging. Connection-class Postgres errors are named
// explicitly to keep logs searchable.
func storeErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgerrcode.IsConnectionException(pgErr.Code),
			pgerrcode.IsOperatorIntervention(pgErr.Code),
			pgerrcode.IsInsufficientResources(pgErr.Code):
			return fmt.Errorf("%w: connection-class error %s: %v", apperrors.ErrStoreUnavailable, pgErr.Code, err)
		}
	}

	return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
}
