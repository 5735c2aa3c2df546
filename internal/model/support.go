package model

import (
	"time"

	"github.com/google/uuid"
)

// TicketStatus is the support ticket lifecycle state.
type TicketStatus string

const (
	TicketNew      TicketStatus = "new"
	TicketRead     TicketStatus = "read"
	TicketResolved TicketStatus = "resolved"
)

// SupportTicket is a user-submitted support or contact message.
type SupportTicket struct {
	ID        uuid.UUID    `json:"id"`
	UserID    *uuid.UUID   `json:"user_id,omitempty"`
	Email     string       `json:"email"`
	Category  string       `json:"category"`
	Subject   string       `json:"subject"`
	Message   string       `json:"message"`
	Status    TicketStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

// SupportContactRequest is the public contact form payload.
type SupportContactRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Category       string `json:"category" binding:"required,oneof=bug billing feedback other"`
	Subject        string `json:"subject" binding:"required,min=3,max=200"`
	Message        string `json:"message" binding:"required,min=10,max=5000"`
	TurnstileToken string `json:"turnstile_token"`
}
