package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vubank/payee-service/internal/domain"
	"github.com/vubank/payee-service/internal/store"
)

// fakePayeeRepository is an in-memory, thread-safe implementation of
// store.PayeeRepository for workflow tests.
type fakePayeeRepository struct {
	mu     sync.Mutex
	nextID int64
	payees map[int64]domain.Payee

	failInsertWith error
}

func newFakePayeeRepository() *fakePayeeRepository {
	return &fakePayeeRepository{nextID: 1, payees: make(map[int64]domain.Payee)}
}

func (f *fakePayeeRepository) CreatePayee(ctx context.Context, payee *domain.Payee) (*domain.Payee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failInsertWith != nil {
		return nil, f.failInsertWith
	}
	for _, existing := range f.payees {
		if existing.UserID == payee.UserID &&
			existing.AccountNumber == payee.AccountNumber &&
			existing.IfscCode == payee.IfscCode {
			return nil, store.ErrDuplicatePayee
		}
	}

	payee.ID = f.nextID
	f.nextID++
	payee.CreatedAt = time.Now().UTC()
	payee.UpdatedAt = payee.CreatedAt
	f.payees[payee.ID] = *payee
	return payee, nil
}

func (f *fakePayeeRepository) GetPayeesByUserID(ctx context.Context, userID string) ([]domain.Payee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []domain.Payee
	for _, p := range f.payees {
		if p.UserID == userID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (f *fakePayeeRepository) GetPayeeByID(ctx context.Context, payeeID int64, userID string) (*domain.Payee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.payees[payeeID]
	if !ok || p.UserID != userID {
		return nil, store.ErrPayeeNotFound
	}
	return &p, nil
}

func (f *fakePayeeRepository) FindDuplicate(ctx context.Context, userID, accountNumber, ifscCode string) (*domain.Payee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.payees {
		if p.UserID == userID && p.AccountNumber == accountNumber && p.IfscCode == ifscCode {
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakePayeeRepository) PayeeExists(ctx context.Context, accountNumber, ifscCode, userID string) (bool, error) {
	p, err := f.FindDuplicate(ctx, userID, accountNumber, ifscCode)
	return p != nil, err
}

func (f *fakePayeeRepository) DeletePayee(ctx context.Context, payeeID int64, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.payees[payeeID]
	if !ok || p.UserID != userID {
		return false, nil
	}
	delete(f.payees, payeeID)
	return true, nil
}

// fakeResolver records how often it is called and answers from a canned
// resolution.
type fakeResolver struct {
	mu         sync.Mutex
	calls      int
	resolution domain.IfscResolution
}

func (f *fakeResolver) Resolve(ctx context.Context, ifscCode string) domain.IfscResolution {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.resolution
}

func (f *fakeResolver) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakePublisher captures published events.
type fakePublisher struct {
	mu          sync.Mutex
	routingKeys []string
}

func (f *fakePublisher) Publish(ctx context.Context, exchange, routingKey string, body interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routingKeys = append(f.routingKeys, routingKey)
	return nil
}

func (f *fakePublisher) Close() {}

func validResolution() domain.IfscResolution {
	return domain.IfscResolution{
		Valid:         true,
		BankName:      "State Bank of India",
		BranchName:    "New Delhi Main Branch",
		City:          "New Delhi",
		State:         "Delhi",
		BranchAddress: "11 Sansad Marg",
		ContactNumber: "+911123374390",
		ClearingCode:  "110002087",
		BankCode:      "SBIN",
		SupportsRTGS:  true,
		SupportsNEFT:  true,
		SupportsIMPS:  true,
		SupportsUPI:   true,
	}
}

func validInput(userID string) AddPayeeInput {
	return AddPayeeInput{
		UserID:          userID,
		BeneficiaryName: "Rajesh Kumar",
		AccountNumber:   "123456789012",
		IfscCode:        "SBIN0000001",
		AccountType:     "Savings",
	}
}

func newTestService(repo *fakePayeeRepository, resolver *fakeResolver) (*PayeeService, *fakePublisher) {
	publisher := &fakePublisher{}
	return NewPayeeService(repo, resolver, publisher), publisher
}

func TestAddPayeePopulatesEnrichmentAndAssignsID(t *testing.T) {
	repo := newFakePayeeRepository()
	resolver := &fakeResolver{resolution: validResolution()}
	service, publisher := newTestService(repo, resolver)

	payee, err := service.AddPayee(context.Background(), validInput("u1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payee.ID == 0 {
		t.Fatal("expected an assigned id")
	}
	if payee.BankName != "State Bank of India" {
		t.Fatalf("expected resolver bank name, got %q", payee.BankName)
	}
	if payee.BranchName != "New Delhi Main Branch" {
		t.Fatalf("expected resolver branch name, got %q", payee.BranchName)
	}
	if payee.ClearingCode != "110002087" || payee.BankCode != "SBIN" {
		t.Fatalf("expected clearing/bank codes from resolver, got %q/%q", payee.ClearingCode, payee.BankCode)
	}
	if !payee.SupportsRTGS || !payee.SupportsNEFT || !payee.SupportsIMPS || !payee.SupportsUPI {
		t.Fatal("expected all rail flags supported")
	}
	if len(publisher.routingKeys) != 1 || publisher.routingKeys[0] != "payee.added" {
		t.Fatalf("expected one payee.added event, got %v", publisher.routingKeys)
	}
}

func TestAddPayeeDuplicateSameOwnerConflicts(t *testing.T) {
	repo := newFakePayeeRepository()
	resolver := &fakeResolver{resolution: validResolution()}
	service, _ := newTestService(repo, resolver)

	if _, err := service.AddPayee(context.Background(), validInput("u1")); err != nil {
		t.Fatalf("first add failed: %v", err)
	}

	// Different display name and account type must not matter.
	second := validInput("u1")
	second.BeneficiaryName = "Someone Else"
	second.AccountType = "Current"

	callsBefore := resolver.callCount()
	_, err := service.AddPayee(context.Background(), second)

	var conflictErr *ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("expected ConflictError, got %T: %v", err, err)
	}
	if resolver.callCount() != callsBefore {
		t.Fatal("duplicate detection must not trigger a registry lookup")
	}
}

func TestAddPayeeSameTripleDifferentOwnersSucceeds(t *testing.T) {
	repo := newFakePayeeRepository()
	resolver := &fakeResolver{resolution: validResolution()}
	service, _ := newTestService(repo, resolver)

	if _, err := service.AddPayee(context.Background(), validInput("u1")); err != nil {
		t.Fatalf("add for u1 failed: %v", err)
	}
	if _, err := service.AddPayee(context.Background(), validInput("u2")); err != nil {
		t.Fatalf("add for u2 failed: %v", err)
	}
}

func TestAddPayeeMalformedIfscSkipsResolver(t *testing.T) {
	repo := newFakePayeeRepository()
	resolver := &fakeResolver{resolution: validResolution()}
	service, _ := newTestService(repo, resolver)

	input := validInput("u1")
	input.IfscCode = "ABC123"

	_, err := service.AddPayee(context.Background(), input)

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if resolver.callCount() != 0 {
		t.Fatal("format check must precede the registry lookup")
	}
}

func TestAddPayeeUnresolvableIfscIsValidationError(t *testing.T) {
	repo := newFakePayeeRepository()
	resolver := &fakeResolver{resolution: domain.IfscResolution{
		Valid:        false,
		ErrorMessage: "Invalid IFSC code or bank details not found",
	}}
	service, _ := newTestService(repo, resolver)

	_, err := service.AddPayee(context.Background(), validInput("u1"))

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	want := "Invalid IFSC code: Invalid IFSC code or bank details not found"
	if validationErr.Message != want {
		t.Fatalf("expected %q, got %q", want, validationErr.Message)
	}

	if payees, _ := repo.GetPayeesByUserID(context.Background(), "u1"); len(payees) != 0 {
		t.Fatal("no write may occur when the registry rejects the code")
	}
}

func TestAddPayeeUniqueViolationAtInsertIsConflict(t *testing.T) {
	repo := newFakePayeeRepository()
	repo.failInsertWith = store.ErrDuplicatePayee
	resolver := &fakeResolver{resolution: validResolution()}
	service, _ := newTestService(repo, resolver)

	_, err := service.AddPayee(context.Background(), validInput("u1"))

	var conflictErr *ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("expected ConflictError from racing insert, got %T: %v", err, err)
	}
}

func TestAddPayeeInsertFailureIsStorageError(t *testing.T) {
	repo := newFakePayeeRepository()
	repo.failInsertWith = errors.New("connection reset")
	resolver := &fakeResolver{resolution: validResolution()}
	service, _ := newTestService(repo, resolver)

	_, err := service.AddPayee(context.Background(), validInput("u1"))

	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("expected StorageError, got %T: %v", err, err)
	}
}

func TestAddPayeeNormalizesIfscBeforeLookup(t *testing.T) {
	repo := newFakePayeeRepository()
	resolver := &fakeResolver{resolution: validResolution()}
	service, _ := newTestService(repo, resolver)

	input := validInput("u1")
	input.IfscCode = " sbin0000001 "

	payee, err := service.AddPayee(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payee.IfscCode != "SBIN0000001" {
		t.Fatalf("expected normalized IFSC code, got %q", payee.IfscCode)
	}
}

func TestGetPayeesEmptyOwnerReturnsEmptyList(t *testing.T) {
	repo := newFakePayeeRepository()
	service, _ := newTestService(repo, &fakeResolver{})

	payees, err := service.GetPayees(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payees == nil {
		t.Fatal("expected an empty list, got nil")
	}
	if len(payees) != 0 {
		t.Fatalf("expected zero payees, got %d", len(payees))
	}
}

func TestGetPayeeRoundTripMatchesCreationResponse(t *testing.T) {
	repo := newFakePayeeRepository()
	resolver := &fakeResolver{resolution: validResolution()}
	service, _ := newTestService(repo, resolver)

	created, err := service.AddPayee(context.Background(), validInput("u1"))
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	fetched, err := service.GetPayee(context.Background(), "u1", created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if *fetched != *created {
		t.Fatalf("fetched payee differs from creation response:\ncreated: %+v\nfetched: %+v", created, fetched)
	}
}

func TestGetPayeeCrossOwnerIsNotFound(t *testing.T) {
	repo := newFakePayeeRepository()
	resolver := &fakeResolver{resolution: validResolution()}
	service, _ := newTestService(repo, resolver)

	created, err := service.AddPayee(context.Background(), validInput("u1"))
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	_, err = service.GetPayee(context.Background(), "u2", created.ID)

	var notFoundErr *NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Fatalf("expected NotFoundError, got %T: %v", err, err)
	}
}

func TestDeletePayeeMissingAndCrossOwnerAreIndistinguishable(t *testing.T) {
	repo := newFakePayeeRepository()
	resolver := &fakeResolver{resolution: validResolution()}
	service, _ := newTestService(repo, resolver)

	created, err := service.AddPayee(context.Background(), validInput("u1"))
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	missingErr := service.DeletePayee(context.Background(), "u1", created.ID+100)
	crossOwnerErr := service.DeletePayee(context.Background(), "u2", created.ID)

	var notFoundErr *NotFoundError
	if !errors.As(missingErr, &notFoundErr) {
		t.Fatalf("expected NotFoundError for missing id, got %T: %v", missingErr, missingErr)
	}
	if !errors.As(crossOwnerErr, &notFoundErr) {
		t.Fatalf("expected NotFoundError for cross-owner delete, got %T: %v", crossOwnerErr, crossOwnerErr)
	}
	if missingErr.Error() != crossOwnerErr.Error() {
		t.Fatalf("messages must not distinguish the two cases: %q vs %q", missingErr.Error(), crossOwnerErr.Error())
	}
}

func TestDeletePayeePublishesEvent(t *testing.T) {
	repo := newFakePayeeRepository()
	resolver := &fakeResolver{resolution: validResolution()}
	service, publisher := newTestService(repo, resolver)

	created, err := service.AddPayee(context.Background(), validInput("u1"))
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := service.DeletePayee(context.Background(), "u1", created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if len(publisher.routingKeys) != 2 || publisher.routingKeys[1] != "payee.deleted" {
		t.Fatalf("expected payee.deleted event, got %v", publisher.routingKeys)
	}
}

func TestCheckPayeeExistsNormalizesAndScopesToOwner(t *testing.T) {
	repo := newFakePayeeRepository()
	resolver := &fakeResolver{resolution: validResolution()}
	service, _ := newTestService(repo, resolver)

	if _, err := service.AddPayee(context.Background(), validInput("u1")); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	exists, err := service.CheckPayeeExists(context.Background(), "u1", " 123456789012 ", "sbin0000001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Fatal("expected existing payee to be found after normalization")
	}

	exists, err = service.CheckPayeeExists(context.Background(), "u2", "123456789012", "SBIN0000001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Fatal("existence must be scoped per owner")
	}
}
