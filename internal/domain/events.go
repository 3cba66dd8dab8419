/**
 * @description
 * This file defines the domain events published by the payee-service. These
 * structs are the contract for messages emitted to the message broker
 * (RabbitMQ) when a payee is added or deleted.
 *
 * @notes
 * - Events are best-effort notifications for downstream consumers (portal
 *   notifications, audit). Publishing never participates in the request's
 *   success or failure.
 */
package domain

import "time"

// PayeeAddedEvent is published on the `payee.added` routing key after a
// payee has been persisted.
type PayeeAddedEvent struct {
	EventID       string    `json:"event_id"`
	UserID        string    `json:"user_id"`
	PayeeID       int64     `json:"payee_id"`
	AccountNumber string    `json:"account_number"`
	IfscCode      string    `json:"ifsc_code"`
	BankName      string    `json:"bank_name"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// PayeeDeletedEvent is published on the `payee.deleted` routing key after a
// payee row has been removed.
type PayeeDeletedEvent struct {
	EventID    string    `json:"event_id"`
	UserID     string    `json:"user_id"`
	PayeeID    int64     `json:"payee_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
