/**
 * @description
 * This file contains the core business logic for the payee-service,
 * implemented as a `PayeeService`. It orchestrates operations by
 * coordinating the database repository, the external IFSC registry client
 * and the event producer.
 *
 * @notes
 * - This service layer keeps the API handlers (controllers) thin and focused
 *   on HTTP concerns, while the business logic remains independent.
 * - The duplicate pre-check runs before the registry lookup so a duplicate
 *   request never triggers an outbound call. The check is not atomic against
 *   concurrent inserts; the unique index is, and a violation at insert time
 *   is reported as a conflict, not a storage failure.
 */
package app

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/vubank/payee-service/internal/domain"
	"github.com/vubank/payee-service/internal/store"
	"github.com/vubank/payee-service/pkg/rabbitmq"
)

const (
	payeeEventsExchange    = "payee_events"
	payeeAddedRoutingKey   = "payee.added"
	payeeDeletedRoutingKey = "payee.deleted"
)

// IfscResolver resolves an IFSC code against the external registry. A failed
// lookup is reported inside the resolution value, never as an error.
type IfscResolver interface {
	Resolve(ctx context.Context, ifscCode string) domain.IfscResolution
}

// PayeeService provides methods for managing a user's payees.
type PayeeService struct {
	repo     store.PayeeRepository
	resolver IfscResolver
	producer rabbitmq.Publisher
}

// NewPayeeService creates a new instance of PayeeService.
func NewPayeeService(repo store.PayeeRepository, resolver IfscResolver, producer rabbitmq.Publisher) *PayeeService {
	return &PayeeService{
		repo:     repo,
		resolver: resolver,
		producer: producer,
	}
}

// AddPayee orchestrates the process of adding a new payee: validate the
// request, check for a duplicate, resolve the IFSC code, persist, and
// return the stored record.
func (s *PayeeService) AddPayee(ctx context.Context, input AddPayeeInput) (*domain.Payee, error) {
	input, err := normalizeAndValidateAddPayeeInput(input)
	if err != nil {
		return nil, err
	}

	duplicate, err := s.repo.FindDuplicate(ctx, input.UserID, input.AccountNumber, input.IfscCode)
	if err != nil {
		return nil, &StorageError{Cause: err}
	}
	if duplicate != nil {
		return nil, &ConflictError{Message: "Payee with this account number and IFSC code already exists"}
	}

	resolution := s.resolver.Resolve(ctx, input.IfscCode)
	if !resolution.Valid {
		return nil, NewValidationError("Invalid IFSC code: %s", resolution.ErrorMessage)
	}

	payee := &domain.Payee{
		UserID:          input.UserID,
		BeneficiaryName: input.BeneficiaryName,
		AccountNumber:   input.AccountNumber,
		IfscCode:        input.IfscCode,
		BankName:        resolution.BankName,
		BranchName:      resolution.BranchName,
		City:            resolution.City,
		State:           resolution.State,
		BranchAddress:   resolution.BranchAddress,
		ContactNumber:   resolution.ContactNumber,
		ClearingCode:    resolution.ClearingCode,
		BankCode:        resolution.BankCode,
		SupportsRTGS:    resolution.SupportsRTGS,
		SupportsNEFT:    resolution.SupportsNEFT,
		SupportsIMPS:    resolution.SupportsIMPS,
		SupportsUPI:     resolution.SupportsUPI,
		AccountType:     input.AccountType,
	}

	created, err := s.repo.CreatePayee(ctx, payee)
	if err != nil {
		// A concurrent insert can win the race past the pre-check; the
		// unique index reports it here and it is still a conflict.
		if errors.Is(err, store.ErrDuplicatePayee) {
			return nil, &ConflictError{Message: "Payee with this account number and IFSC code already exists"}
		}
		return nil, &StorageError{Cause: err}
	}

	log.Printf("Payee %d added for user %s", created.ID, created.UserID)
	s.publish(payeeAddedRoutingKey, domain.PayeeAddedEvent{
		EventID:       uuid.NewString(),
		UserID:        created.UserID,
		PayeeID:       created.ID,
		AccountNumber: created.AccountNumber,
		IfscCode:      created.IfscCode,
		BankName:      created.BankName,
		OccurredAt:    time.Now().UTC(),
	})

	return created, nil
}

// GetPayees retrieves all payees for a user, ordered by beneficiary name.
// A user with no payees gets an empty list, never an error.
func (s *PayeeService) GetPayees(ctx context.Context, userID string) ([]domain.Payee, error) {
	payees, err := s.repo.GetPayeesByUserID(ctx, userID)
	if err != nil {
		return nil, &StorageError{Cause: err}
	}
	if payees == nil {
		payees = []domain.Payee{}
	}
	return payees, nil
}

// GetPayee fetches a single payee owned by the user.
func (s *PayeeService) GetPayee(ctx context.Context, userID string, payeeID int64) (*domain.Payee, error) {
	payee, err := s.repo.GetPayeeByID(ctx, payeeID, userID)
	if err != nil {
		if errors.Is(err, store.ErrPayeeNotFound) {
			return nil, &NotFoundError{Message: "Payee not found"}
		}
		return nil, &StorageError{Cause: err}
	}
	return payee, nil
}

// DeletePayee removes a payee owned by the user. A payee that does not exist
// and a payee owned by someone else are both reported as not found.
func (s *PayeeService) DeletePayee(ctx context.Context, userID string, payeeID int64) error {
	deleted, err := s.repo.DeletePayee(ctx, payeeID, userID)
	if err != nil {
		return &StorageError{Cause: err}
	}
	if !deleted {
		return &NotFoundError{Message: "Payee not found"}
	}

	log.Printf("Payee %d deleted for user %s", payeeID, userID)
	s.publish(payeeDeletedRoutingKey, domain.PayeeDeletedEvent{
		EventID:    uuid.NewString(),
		UserID:     userID,
		PayeeID:    payeeID,
		OccurredAt: time.Now().UTC(),
	})

	return nil
}

// CheckPayeeExists reports whether the user already has a payee with the
// given account number and IFSC code. Absence is a valid answer, not an
// error.
func (s *PayeeService) CheckPayeeExists(ctx context.Context, userID, accountNumber, ifscCode string) (bool, error) {
	accountNumber = trimmed(accountNumber)
	ifscCode = normalizeIfsc(ifscCode)
	exists, err := s.repo.PayeeExists(ctx, accountNumber, ifscCode, userID)
	if err != nil {
		return false, &StorageError{Cause: err}
	}
	return exists, nil
}

// publish emits a domain event without affecting the request outcome. The
// producer runs detached from the request context so a client disconnect
// does not drop the event.
func (s *PayeeService) publish(routingKey string, body interface{}) {
	if s.producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.producer.Publish(ctx, payeeEventsExchange, routingKey, body); err != nil {
		log.Printf("Failed to publish %s event: %v", routingKey, err)
	}
}
