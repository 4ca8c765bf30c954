package models

import (
	"time"

	"busticket/internal/domain"
)

// Payment is one payment attempt against a ticket. Records are never updated;
// a retry creates a new record.
type Payment struct {
	ID            string               `json:"id"`
	ReservationID string               `json:"reservation_id"`
	Amount        int64                `json:"amount"`
	Method        domain.PaymentMethod `json:"method"`
	Status        domain.PaymentStatus `json:"status"`
	CreatedAt     time.Time            `json:"created_at"`
	ProcessedAt   *time.Time           `json:"processed_at"`
	Details       map[string]any       `json:"details"`
}

// RecordID satisfies repositories.Record.
func (p Payment) RecordID() string { return p.ID }
