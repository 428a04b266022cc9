// institution-portal/internal/ledger/errors.go
package ledger

import "errors"

// Every ledger operation is a single deterministic storage round trip, so
// failures are surfaced to the caller as-is with no local retries. The HTTP
// layer maps these to 404, 400 and 409 respectively.
var (
	// ErrNotFound covers unknown persons, unknown records and cross-tenant
	// lookups alike, so existence never leaks across institutions.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput covers malformed month keys and negative payment
	// amounts.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned to the loser of a concurrent first-payment
	// race when the winner's record also cannot be read back; the caller
	// may retry.
	ErrConflict = errors.New("conflict")
)
