package bookings

import (
	"errors"
	"time"
)

// Booking statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// ErrBookingNotFound is returned when a booking is not found.
var ErrBookingNotFound = errors.New("booking not found")

// Booking is a viewing appointment request for a project.
type Booking struct {
	ID             string    `json:"id"`
	LeadID         string    `json:"lead_id"`
	ProjectID      int64     `json:"project_id"`
	ConversationID string    `json:"conversation_id"`
	Status         string    `json:"status"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
