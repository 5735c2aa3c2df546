package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// Sender delivers transactional mail through Resend.
type Sender struct {
	client  *resend.Client
	from    string
	baseURL string
	log     zerolog.Logger
}

// NewSender creates a Resend-backed sender. baseURL is the frontend
// origin used to build links; scheme and www are normalized.
func NewSender(apiKey, from, baseURL string, log zerolog.Logger) *Sender {
	return &Sender{
		client:  resend.NewClient(apiKey),
		from:    from,
		baseURL: normalizeBaseURL(baseURL),
		log:     log.With().Str("component", "email").Logger(),
	}
}

// normalizeBaseURL forces https and a www host for bare domains.
func normalizeBaseURL(raw string) string {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Scheme = "https"
	host := u.Hostname()
	if !strings.HasPrefix(host, "www.") && strings.Count(host, ".") == 1 {
		u.Host = "www." + u.Host
	}
	return strings.TrimRight(u.String(), "/")
}

var verificationTmpl = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html lang="pl">
<body style="font-family: sans-serif; color: #1f2933;">
  <h2>Cześć {{.Name}}!</h2>
  <p>Dziękujemy za rejestrację w Inquizitorze. Aby dokończyć zakładanie konta,
  potwierdź swój adres e-mail:</p>
  <p><a href="{{.Link}}" style="background:#4f46e5;color:#fff;padding:12px 24px;border-radius:6px;text-decoration:none;">Potwierdź adres e-mail</a></p>
  <p>Link wygaśnie po 24 godzinach. Jeśli to nie Ty zakładałeś konto, zignoruj tę wiadomość.</p>
</body>
</html>`))

var passwordResetTmpl = template.Must(template.New("password_reset").Parse(`<!DOCTYPE html>
<html lang="pl">
<body style="font-family: sans-serif; color: #1f2933;">
  <h2>Cześć {{.Name}}!</h2>
  <p>Otrzymaliśmy prośbę o zresetowanie hasła do Twojego konta.</p>
  <p><a href="{{.Link}}" style="background:#4f46e5;color:#fff;padding:12px 24px;border-radius:6px;text-decoration:none;">Ustaw nowe hasło</a></p>
  <p>Link wygaśnie po 30 minutach. Jeśli nie prosiłeś o reset hasła, zignoruj tę wiadomość.</p>
</body>
</html>`))

type linkData struct {
	Name string
	Link string
}

// SendVerification mails the e-mail confirmation link.
func (s *Sender) SendVerification(to, name, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", s.baseURL, url.QueryEscape(token))
	return s.send(to, "Potwierdź swój adres e-mail", verificationTmpl, linkData{Name: name, Link: link})
}

// SendPasswordReset mails the password reset link.
func (s *Sender) SendPasswordReset(to, name, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, url.QueryEscape(token))
	return s.send(to, "Zresetuj swoje hasło", passwordResetTmpl, linkData{Name: name, Link: link})
}

func (s *Sender) send(to, subject string, tmpl *template.Template, data linkData) error {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("render email template: %w", err)
	}

	_, err := s.client.Emails.Send(&resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    body.String(),
	})
	if err != nil {
		return fmt.Errorf("send email via resend: %w", err)
	}

	s.log.Info().Str("to", to).Str("subject", subject).Msg("Email sent")
	return nil
}
