/**
 * @description
 * This file implements the data access layer for payee-related operations
 * against PostgreSQL.
 *
 * @dependencies
 * - context: For managing request-scoped deadlines and cancellations.
 * - github.com/jackc/pgx/v5: The PostgreSQL driver.
 * - The service's internal domain package for the Payee model.
 */
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vubank/payee-service/internal/domain"
)

const payeeColumns = `id, user_id, beneficiary_name, account_number, ifsc_code,
	bank_name, branch_name, city, state, branch_address, contact_number,
	clearing_code, bank_code, supports_rtgs, supports_neft, supports_imps,
	supports_upi, account_type, created_at, updated_at`

// PostgresPayeeRepository is the PostgreSQL implementation of PayeeRepository.
type PostgresPayeeRepository struct {
	db *pgxpool.Pool
}

// NewPostgresPayeeRepository creates a new instance of PostgresPayeeRepository.
func NewPostgresPayeeRepository(db *pgxpool.Pool) *PostgresPayeeRepository {
	return &PostgresPayeeRepository{db: db}
}

// CreatePayee inserts a new payee record. A violation of the unique
// (user_id, account_number, ifsc_code) index is reported as
// ErrDuplicatePayee so the workflow can resolve the check-then-act race
// against concurrent inserts.
func (r *PostgresPayeeRepository) CreatePayee(ctx context.Context, payee *domain.Payee) (*domain.Payee, error) {
	query := `
        INSERT INTO payees (user_id, beneficiary_name, account_number, ifsc_code,
            bank_name, branch_name, city, state, branch_address, contact_number,
            clearing_code, bank_code, supports_rtgs, supports_neft, supports_imps,
            supports_upi, account_type)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		payee.UserID,
		payee.BeneficiaryName,
		payee.AccountNumber,
		payee.IfscCode,
		payee.BankName,
		payee.BranchName,
		payee.City,
		payee.State,
		payee.BranchAddress,
		payee.ContactNumber,
		payee.ClearingCode,
		payee.BankCode,
		payee.SupportsRTGS,
		payee.SupportsNEFT,
		payee.SupportsIMPS,
		payee.SupportsUPI,
		payee.AccountType,
	).Scan(&payee.ID, &payee.CreatedAt, &payee.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicatePayee
		}
		return nil, fmt.Errorf("failed to create payee: %w", err)
	}
	return payee, nil
}

// GetPayeesByUserID retrieves all payees for a given user, ordered by
// beneficiary name.
func (r *PostgresPayeeRepository) GetPayeesByUserID(ctx context.Context, userID string) ([]domain.Payee, error) {
	query := `
        SELECT ` + payeeColumns + `
        FROM payees
        WHERE user_id = $1
        ORDER BY beneficiary_name ASC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payees: %w", err)
	}
	defer rows.Close()

	var payees []domain.Payee
	for rows.Next() {
		p, err := scanPayee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payee row: %w", err)
		}
		payees = append(payees, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payee rows: %w", err)
	}
	return payees, nil
}

// GetPayeeByID fetches a single payee scoped to its owner. An id that exists
// but belongs to a different user yields ErrPayeeNotFound.
func (r *PostgresPayeeRepository) GetPayeeByID(ctx context.Context, payeeID int64, userID string) (*domain.Payee, error) {
	query := `
        SELECT ` + payeeColumns + `
        FROM payees
        WHERE id = $1 AND user_id = $2
    `
	p, err := scanPayee(r.db.QueryRow(ctx, query, payeeID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPayeeNotFound
		}
		return nil, fmt.Errorf("failed to query payee %d: %w", payeeID, err)
	}
	return p, nil
}

// FindDuplicate looks up an existing payee with the same owner, account
// number and IFSC code. Absence is not an error; it returns (nil, nil).
func (r *PostgresPayeeRepository) FindDuplicate(ctx context.Context, userID, accountNumber, ifscCode string) (*domain.Payee, error) {
	query := `
        SELECT ` + payeeColumns + `
        FROM payees
        WHERE user_id = $1 AND account_number = $2 AND ifsc_code = $3
    `
	p, err := scanPayee(r.db.QueryRow(ctx, query, userID, accountNumber, ifscCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query duplicate payee: %w", err)
	}
	return p, nil
}

// PayeeExists reports whether a payee with the given account number and IFSC
// code already exists for the user.
func (r *PostgresPayeeRepository) PayeeExists(ctx context.Context, accountNumber, ifscCode, userID string) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM payees
            WHERE user_id = $1 AND account_number = $2 AND ifsc_code = $3
        )
    `
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, accountNumber, ifscCode).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check payee existence: %w", err)
	}
	return exists, nil
}

// DeletePayee removes a payee owned by the user. It returns false when no
// matching row existed, whether the id is unknown or owned by someone else.
func (r *PostgresPayeeRepository) DeletePayee(ctx context.Context, payeeID int64, userID string) (bool, error) {
	query := `
        DELETE FROM payees
        WHERE id = $1 AND user_id = $2
    `
	result, err := r.db.Exec(ctx, query, payeeID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete payee: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// scanPayee reads one payee row from either a pgx.Row or pgx.Rows.
func scanPayee(row pgx.Row) (*domain.Payee, error) {
	var p domain.Payee
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.BeneficiaryName,
		&p.AccountNumber,
		&p.IfscCode,
		&p.BankName,
		&p.BranchName,
		&p.City,
		&p.State,
		&p.BranchAddress,
		&p.ContactNumber,
		&p.ClearingCode,
		&p.BankCode,
		&p.SupportsRTGS,
		&p.SupportsNEFT,
		&p.SupportsIMPS,
		&p.SupportsUPI,
		&p.AccountType,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
