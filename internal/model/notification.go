package model

import (
	"time"

	"github.com/google/uuid"
)

// SystemNotification is an announcement shown to every user.
type SystemNotification struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	// Read is filled per-user when listing.
	Read bool `json:"read"`
}
