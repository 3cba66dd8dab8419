/**
 * @description
 * This package provides a client for the public IFSC registry API. Given an
 * IFSC routing code it fetches the owning bank and branch metadata used to
 * enrich newly created payees.
 *
 * Key features:
 * - A lookup failure (unreachable registry, non-success status, malformed
 *   body, unknown code) is never a Go error: Resolve always returns a
 *   resolution value so the workflow can present a uniform validation
 *   failure instead of a server error.
 * - The caller is expected to pass a normalized (uppercase) code; the
 *   client is a pass-through lookup, not a normalizer.
 *
 * @dependencies
 * - encoding/json, net/http, time: Standard Go libraries.
 * - The service's internal domain package for the registry response models.
 */
package ifscclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/vubank/payee-service/internal/domain"
)

const defaultTimeout = 5 * time.Second

// Fallbacks for the two display fields the workflow treats as mandatory.
const (
	unknownBank   = "Unknown Bank"
	unknownBranch = "Unknown Branch"
)

// Client is a client for the IFSC registry API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new IFSC registry client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// Resolve looks up an IFSC code and returns the bank metadata attached to
// it. The registry keys lookups by code in the URL path and answers 404 for
// codes it does not know.
func (c *Client) Resolve(ctx context.Context, ifscCode string) domain.IfscResolution {
	url := fmt.Sprintf("%s/%s", c.baseURL, ifscCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return invalidResolution(fmt.Sprintf("could not build registry request: %v", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("IFSC registry lookup failed for %s: %v", ifscCode, err)
		return invalidResolution("Unable to validate IFSC code at this time")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("IFSC registry returned status %d for %s", resp.StatusCode, ifscCode)
		return invalidResolution("Invalid IFSC code or bank details not found")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return invalidResolution("Unable to validate IFSC code at this time")
	}

	var registry domain.IfscRegistryResponse
	if err := json.Unmarshal(body, &registry); err != nil {
		log.Printf("IFSC registry returned malformed body for %s: %v", ifscCode, err)
		return invalidResolution("Invalid IFSC code or bank details not found")
	}

	return domain.IfscResolution{
		Valid:         true,
		BankName:      orFallback(registry.Bank, unknownBank),
		BranchName:    orFallback(registry.Branch, unknownBranch),
		City:          registry.City,
		State:         registry.State,
		BranchAddress: registry.Address,
		ContactNumber: registry.Contact,
		ClearingCode:  registry.MICR,
		BankCode:      registry.BankCode,
		SupportsRTGS:  flagOrTrue(registry.RTGS),
		SupportsNEFT:  flagOrTrue(registry.NEFT),
		SupportsIMPS:  flagOrTrue(registry.IMPS),
		SupportsUPI:   flagOrTrue(registry.UPI),
	}
}

func invalidResolution(message string) domain.IfscResolution {
	return domain.IfscResolution{Valid: false, ErrorMessage: message}
}

func orFallback(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// flagOrTrue treats an absent rail flag as supported; older registry
// entries predate the per-rail fields.
func flagOrTrue(flag *bool) bool {
	if flag == nil {
		return true
	}
	return *flag
}
