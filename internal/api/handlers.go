/**
 * @description
 * This file defines the HTTP handlers for the payee-service's API endpoints.
 * Handlers are responsible for parsing requests, calling the appropriate
 * service method, and mapping the workflow's error taxonomy onto status
 * codes.
 *
 * @dependencies
 * - Standard Go libraries for HTTP, JSON, etc.
 * - Chi router for URL parameter handling.
 * - The service's internal packages for app logic and middleware.
 */
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vubank/payee-service/internal/app"
	"github.com/vubank/payee-service/pkg/middleware"
)

// PayeeHandler holds the dependencies for payee-related handlers.
type PayeeHandler struct {
	service *app.PayeeService
}

// NewPayeeHandler creates a new PayeeHandler.
func NewPayeeHandler(service *app.PayeeService) *PayeeHandler {
	return &PayeeHandler{service: service}
}

// AddPayeeRequest defines the expected JSON body for adding a payee.
// `payeeName` is a deprecated alias kept for older portal clients; it is
// honored only when `beneficiaryName` is blank.
type AddPayeeRequest struct {
	BeneficiaryName string `json:"beneficiaryName"`
	PayeeName       string `json:"payeeName,omitempty"`
	AccountNumber   string `json:"accountNumber"`
	IfscCode        string `json:"ifscCode"`
	AccountType     string `json:"accountType"`
}

// CheckPayeeExistsRequest defines the JSON body for the existence probe.
type CheckPayeeExistsRequest struct {
	AccountNumber string `json:"accountNumber"`
	IfscCode      string `json:"ifscCode"`
}

// GetPayees handles listing all payees for the authenticated user.
func (h *PayeeHandler) GetPayees(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "User ID not found in token")
		return
	}

	payees, err := h.service.GetPayees(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, payees)
}

// GetPayee handles fetching a single payee by id.
func (h *PayeeHandler) GetPayee(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "User ID not found in token")
		return
	}

	payeeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		// A non-numeric id can never match a row; report it the same way.
		writeError(w, http.StatusNotFound, "Payee not found")
		return
	}

	payee, err := h.service.GetPayee(r.Context(), userID, payeeID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, payee)
}

// AddPayee handles the creation of a new payee.
func (h *PayeeHandler) AddPayee(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "User ID not found in token")
		return
	}

	var req AddPayeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name := req.BeneficiaryName
	if name == "" {
		name = req.PayeeName
	}

	payee, err := h.service.AddPayee(r.Context(), app.AddPayeeInput{
		UserID:          userID,
		BeneficiaryName: name,
		AccountNumber:   req.AccountNumber,
		IfscCode:        req.IfscCode,
		AccountType:     req.AccountType,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, payee)
}

// DeletePayee handles the deletion of a specific payee.
func (h *PayeeHandler) DeletePayee(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "User ID not found in token")
		return
	}

	payeeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Payee not found")
		return
	}

	if err := h.service.DeletePayee(r.Context(), userID, payeeID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Payee deleted successfully"})
}

// CheckPayeeExists handles the existence probe for an account/IFSC pair.
func (h *PayeeHandler) CheckPayeeExists(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "User ID not found in token")
		return
	}

	var req CheckPayeeExistsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	exists, err := h.service.CheckPayeeExists(r.Context(), userID, req.AccountNumber, req.IfscCode)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

// writeServiceError maps the workflow error taxonomy to HTTP status codes.
// Storage causes are logged but never exposed to the client.
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *app.ValidationError
	var conflictErr *app.ConflictError
	var notFoundErr *app.NotFoundError
	var storageErr *app.StorageError

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &conflictErr):
		writeError(w, http.StatusConflict, conflictErr.Message)
	case errors.As(err, &notFoundErr):
		writeError(w, http.StatusNotFound, notFoundErr.Message)
	case errors.As(err, &storageErr):
		log.Printf("Storage error: %v", storageErr)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
	default:
		log.Printf("Unclassified error: %v", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// writeJSON is a helper to write JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeError writes a JSON error body of the form {"message": "..."}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
