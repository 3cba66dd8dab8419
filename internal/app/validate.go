/**
 * @description
 * Input validation and normalization for the add-payee workflow. All string
 * fields are trimmed, the IFSC code is uppercased, and the account type
 * falls back to the default when blank. Format checks run before any
 * external lookup is attempted.
 */
package app

import (
	"regexp"
	"strings"

	"github.com/vubank/payee-service/internal/domain"
)

// IFSC codes are 11 characters: 4 letters identifying the bank, a literal
// zero, then 6 alphanumerics identifying the branch.
var ifscPattern = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)

const (
	minBeneficiaryNameLen = 2
	maxBeneficiaryNameLen = 100
	minAccountNumberLen   = 8
	maxAccountNumberLen   = 50
	maxAccountTypeLen     = 20
)

// AddPayeeInput defines the required input for adding a payee.
type AddPayeeInput struct {
	UserID          string
	BeneficiaryName string
	AccountNumber   string
	IfscCode        string
	AccountType     string
}

func trimmed(s string) string { return strings.TrimSpace(s) }

func normalizeIfsc(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

// normalizeAndValidateAddPayeeInput trims and normalizes the request fields
// and enforces the shape constraints. It returns the normalized input or a
// ValidationError describing the first violated rule.
func normalizeAndValidateAddPayeeInput(input AddPayeeInput) (AddPayeeInput, error) {
	input.BeneficiaryName = strings.TrimSpace(input.BeneficiaryName)
	input.AccountNumber = strings.TrimSpace(input.AccountNumber)
	input.IfscCode = strings.ToUpper(strings.TrimSpace(input.IfscCode))
	input.AccountType = strings.TrimSpace(input.AccountType)

	if nameLen := len(input.BeneficiaryName); nameLen < minBeneficiaryNameLen || nameLen > maxBeneficiaryNameLen {
		return input, NewValidationError("beneficiary name must be between %d and %d characters", minBeneficiaryNameLen, maxBeneficiaryNameLen)
	}
	if acctLen := len(input.AccountNumber); acctLen < minAccountNumberLen || acctLen > maxAccountNumberLen {
		return input, NewValidationError("account number must be between %d and %d characters", minAccountNumberLen, maxAccountNumberLen)
	}
	if !ifscPattern.MatchString(input.IfscCode) {
		return input, NewValidationError("invalid IFSC code format")
	}
	if input.AccountType == "" {
		input.AccountType = domain.DefaultAccountType
	}
	if len(input.AccountType) > maxAccountTypeLen {
		return input, NewValidationError("account type must be at most %d characters", maxAccountTypeLen)
	}

	return input, nil
}
