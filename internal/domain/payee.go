/**
 * @description
 * This file defines the core domain model for a Payee. A payee is a saved
 * beneficiary (an external bank account identified by account number and IFSC
 * code) that a VuBank user can send money to.
 *
 * @notes
 * - `UserID` is the opaque identity string resolved by the auth layer; it
 *   scopes every payee to its owner.
 * - The enrichment fields (bank, branch, city, rails, ...) are never
 *   user-supplied. They are populated from the IFSC registry lookup at
 *   creation time and returned verbatim afterwards.
 * - (UserID, AccountNumber, IfscCode) is unique per store; the database
 *   enforces it with a unique index.
 */
package domain

import "time"

// DefaultAccountType is applied when an add-payee request leaves the
// account type blank.
const DefaultAccountType = "Savings"

// Payee represents a user's saved beneficiary for money transfer.
// The JSON projection is the API response shape; no field is withheld.
type Payee struct {
	ID              int64     `json:"id"`
	UserID          string    `json:"userId"`
	BeneficiaryName string    `json:"beneficiaryName"`
	AccountNumber   string    `json:"accountNumber"`
	IfscCode        string    `json:"ifscCode"`
	BankName        string    `json:"bankName"`
	BranchName      string    `json:"branchName"`
	City            string    `json:"city,omitempty"`
	State           string    `json:"state,omitempty"`
	BranchAddress   string    `json:"branchAddress,omitempty"`
	ContactNumber   string    `json:"contactNumber,omitempty"`
	ClearingCode    string    `json:"clearingCode,omitempty"`
	BankCode        string    `json:"bankCode,omitempty"`
	SupportsRTGS    bool      `json:"supportsRtgs"`
	SupportsNEFT    bool      `json:"supportsNeft"`
	SupportsIMPS    bool      `json:"supportsImps"`
	SupportsUPI     bool      `json:"supportsUpi"`
	AccountType     string    `json:"accountType"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
