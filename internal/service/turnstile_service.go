package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const turnstileVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// ErrTurnstileRejected is returned when Cloudflare rejects the token.
var ErrTurnstileRejected = errors.New("turnstile verification failed")

// TurnstileService verifies Cloudflare Turnstile tokens. With an empty
// secret the service is disabled and every request passes.
type TurnstileService struct {
	secret string
	client *http.Client
	log    zerolog.Logger
}

// NewTurnstileService creates a new TurnstileService.
func NewTurnstileService(secret string, log zerolog.Logger) *TurnstileService {
	return &TurnstileService{
		secret: secret,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

// Enabled reports whether a secret key is configured.
func (s *TurnstileService) Enabled() bool {
	return s.secret != ""
}

// Verify checks a token against the siteverify endpoint. Fails closed:
// a missing token or an unreachable endpoint rejects the request.
func (s *TurnstileService) Verify(ctx context.Context, token, remoteIP string) error {
	if !s.Enabled() {
		return nil
	}
	if token == "" {
		return ErrTurnstileRejected
	}

	form := url.Values{}
	form.Set("secret", s.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, turnstileVerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn().Err(err).Msg("turnstile siteverify unreachable")
		return ErrTurnstileRejected
	}
	defer resp.Body.Close()

	var body struct {
		Success    bool     `json:"success"`
		ErrorCodes []string `json:"error-codes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode siteverify response: %w", err)
	}

	if !body.Success {
		s.log.Debug().Strs("error_codes", body.ErrorCodes).Msg("turnstile token rejected")
		return ErrTurnstileRejected
	}
	return nil
}
