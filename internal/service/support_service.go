package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/inquizitor/inquizitor-backend/internal/model"
	"github.com/inquizitor/inquizitor-backend/internal/repository"
)

// SupportService stores contact form submissions.
type SupportService struct {
	tickets *repository.SupportRepository
	log     zerolog.Logger
}

// NewSupportService creates a new SupportService.
func NewSupportService(tickets *repository.SupportRepository, log zerolog.Logger) *SupportService {
	return &SupportService{tickets: tickets, log: log}
}

// Submit creates a ticket. userID is nil for anonymous submissions.
func (s *SupportService) Submit(ctx context.Context, userID *uuid.UUID, req *model.SupportContactRequest) (*model.SupportTicket, error) {
	ticket := &model.SupportTicket{
		UserID:   userID,
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Category: req.Category,
		Subject:  strings.TrimSpace(req.Subject),
		Message:  strings.TrimSpace(req.Message),
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.log.Info().Str("category", ticket.Category).Str("ticket_id", ticket.ID.String()).Msg("Support ticket created")
	return ticket, nil
}
