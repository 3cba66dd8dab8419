/**
 * @description
 * This file defines the interface for the data access layer (repository).
 * Defining an interface allows for dependency injection and easy mocking in
 * tests, promoting a loosely coupled architecture.
 *
 * @notes
 * - The workflow layer depends on this interface, never on the concrete
 *   PostgreSQL implementation.
 * - Implementations must not leak driver-specific error shapes: a unique
 *   index violation surfaces as ErrDuplicatePayee, a missing row as
 *   ErrPayeeNotFound. Everything else wraps the underlying cause.
 */
package store

import (
	"context"
	"errors"

	"github.com/vubank/payee-service/internal/domain"
)

// ErrPayeeNotFound is returned when no payee matches the requested id for
// the requesting owner. A payee owned by a different user is reported the
// same way so cross-owner existence never leaks.
var ErrPayeeNotFound = errors.New("payee not found")

// ErrDuplicatePayee is returned when an insert violates the unique
// (user_id, account_number, ifsc_code) index.
var ErrDuplicatePayee = errors.New("payee already exists")

// PayeeRepository defines the contract for database operations on payees.
type PayeeRepository interface {
	CreatePayee(ctx context.Context, payee *domain.Payee) (*domain.Payee, error)
	GetPayeesByUserID(ctx context.Context, userID string) ([]domain.Payee, error)
	GetPayeeByID(ctx context.Context, payeeID int64, userID string) (*domain.Payee, error)
	FindDuplicate(ctx context.Context, userID, accountNumber, ifscCode string) (*domain.Payee, error)
	PayeeExists(ctx context.Context, accountNumber, ifscCode, userID string) (bool, error)
	DeletePayee(ctx context.Context, payeeID int64, userID string) (bool, error)
}
