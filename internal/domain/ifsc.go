/**
 * @description
 * This file defines the models for the external IFSC registry lookup. The
 * registry (Razorpay's public IFSC API) returns bank and branch metadata for
 * a routing code; IfscResolution is our normalized view of that response.
 *
 * @notes
 * - A failed lookup is a value (`Valid: false`), never a Go error. The
 *   workflow turns it into a user-facing validation failure, so transport
 *   details must not leak past the resolver.
 */
package domain

// IfscResolution is the outcome of resolving an IFSC code against the
// external registry.
type IfscResolution struct {
	Valid         bool
	BankName      string
	BranchName    string
	City          string
	State         string
	BranchAddress string
	ContactNumber string
	ClearingCode  string
	BankCode      string
	SupportsRTGS  bool
	SupportsNEFT  bool
	SupportsIMPS  bool
	SupportsUPI   bool
	ErrorMessage  string
}

// IfscRegistryResponse mirrors the upstream registry's JSON body.
// Rail flags are pointers because older registry entries omit them; an
// absent flag means the rail is supported.
type IfscRegistryResponse struct {
	Bank     string `json:"BANK"`
	Branch   string `json:"BRANCH"`
	City     string `json:"CITY"`
	State    string `json:"STATE"`
	Address  string `json:"ADDRESS"`
	Contact  string `json:"CONTACT"`
	MICR     string `json:"MICR"`
	BankCode string `json:"BANKCODE"`
	RTGS     *bool  `json:"RTGS"`
	NEFT     *bool  `json:"NEFT"`
	IMPS     *bool  `json:"IMPS"`
	UPI      *bool  `json:"UPI"`
}
