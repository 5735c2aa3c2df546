package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/inquizitor/inquizitor-backend/internal/config"
	"github.com/inquizitor/inquizitor-backend/internal/model"
	"github.com/inquizitor/inquizitor-backend/internal/repository"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrTokenInvalid       = errors.New("token invalid or expired")
)

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// AuthService handles registration, e-mail verification, login and the
// refresh token lifecycle. Accounts exist only after verification.
type AuthService struct {
	cfg    *config.Config
	rdb    *redis.Client
	users  *repository.UserRepository
	tokens *repository.TokenRepository
	log    zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, rdb *redis.Client, users *repository.UserRepository, tokens *repository.TokenRepository, log zerolog.Logger) *AuthService {
	return &AuthService{cfg: cfg, rdb: rdb, users: users, tokens: tokens, log: log}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// newRawToken returns a 256-bit random token in hex together with its
// SHA-256 hash. Only the hash is persisted.
func newRawToken() (raw, hash string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("random token: %w", err)
	}
	raw = hex.EncodeToString(buf)
	return raw, hashToken(raw), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Register stores a pending registration and queues the verification
// e-mail. A repeated registration for the same address replaces the
// previous pending entry and re-sends the link.
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if exists {
		return ErrEmailTaken
	}

	passwordHash, err := s.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	raw, tokenHash, err := newRawToken()
	if err != nil {
		return err
	}

	pending := &model.PendingVerification{
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: passwordHash,
		TokenHash:    tokenHash,
		ExpiresAt:    time.Now().Add(s.cfg.VerificationExpiry),
	}
	if err := s.tokens.UpsertPending(ctx, pending); err != nil {
		return fmt.Errorf("store pending registration: %w", err)
	}

	return s.enqueueEmail(ctx, model.EmailTask{
		Kind:  "verification",
		To:    email,
		Name:  pending.Name,
		Token: raw,
	})
}

// VerifyEmail consumes a verification token, creates the account and
// returns a fresh token pair so the user lands logged in.
func (s *AuthService) VerifyEmail(ctx context.Context, rawToken string) (*model.User, *model.TokenPair, error) {
	pending, err := s.tokens.GetPendingByTokenHash(ctx, hashToken(rawToken))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrTokenInvalid
		}
		return nil, nil, fmt.Errorf("lookup pending registration: %w", err)
	}

	user := &model.User{
		Email:        pending.Email,
		Name:         pending.Name,
		PasswordHash: pending.PasswordHash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.tokens.DeletePending(ctx, pending.ID); err != nil {
		s.log.Warn().Err(err).Str("email", pending.Email).Msg("failed to delete pending registration")
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Login authenticates with e-mail and password.
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, *model.TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := s.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh rotates a refresh token. The presented token is revoked and a
// new pair is issued; a revoked or expired token is rejected.
func (s *AuthService) Refresh(ctx context.Context, rawRefresh string) (*model.TokenPair, error) {
	stored, err := s.tokens.GetRefreshByHash(ctx, hashToken(rawRefresh))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, fmt.Errorf("lookup refresh token: %w", err)
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	if err := s.tokens.RevokeRefresh(ctx, stored.ID); err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}

	return s.issueTokenPair(ctx, user)
}

// Logout revokes the presented refresh token. Unknown tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, rawRefresh string) error {
	stored, err := s.tokens.GetRefreshByHash(ctx, hashToken(rawRefresh))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("lookup refresh token: %w", err)
	}
	return s.tokens.RevokeRefresh(ctx, stored.ID)
}

// ForgotPassword queues a reset e-mail when the address is registered.
// The caller always gets a success response so addresses cannot be probed.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	raw, tokenHash, err := newRawToken()
	if err != nil {
		return err
	}

	reset := &model.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: time.Now().Add(s.cfg.PasswordResetExpiry),
	}
	if err := s.tokens.CreatePasswordReset(ctx, reset); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	return s.enqueueEmail(ctx, model.EmailTask{
		Kind:  "password_reset",
		To:    user.Email,
		Name:  user.Name,
		Token: raw,
	})
}

// ResetPassword consumes a reset token, replaces the password and
// revokes every active session of the user.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	reset, err := s.tokens.GetPasswordResetByHash(ctx, hashToken(rawToken))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTokenInvalid
		}
		return fmt.Errorf("lookup reset token: %w", err)
	}

	passwordHash, err := s.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, reset.UserID, passwordHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.tokens.MarkPasswordResetUsed(ctx, reset.ID); err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}
	return s.tokens.RevokeAllForUser(ctx, reset.UserID)
}

// ChangePassword replaces the password of a logged-in user after
// re-checking the current one. Other sessions stay valid.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req *model.ChangePasswordRequest) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if err := s.CheckPassword(user.PasswordHash, req.CurrentPassword); err != nil {
		return ErrInvalidCredentials
	}

	passwordHash, err := s.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, userID, passwordHash)
}

// ValidateToken parses and validates an access token, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) issueTokenPair(ctx context.Context, user *model.User) (*model.TokenPair, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		UserID: user.ID,
		Email:  user.Email,
	}

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	rawRefresh, refreshHash, err := newRawToken()
	if err != nil {
		return nil, err
	}
	refresh := &model.RefreshToken{
		UserID:    user.ID,
		TokenHash: refreshHash,
		ExpiresAt: now.Add(s.cfg.RefreshExpiry),
	}
	if err := s.tokens.CreateRefresh(ctx, refresh); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &model.TokenPair{
		AccessToken:  access,
		RefreshToken: rawRefresh,
		ExpiresIn:    int64(s.cfg.JWTExpiry.Seconds()),
	}, nil
}

func (s *AuthService) enqueueEmail(ctx context.Context, task model.EmailTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal email task: %w", err)
	}
	if err := s.rdb.LPush(ctx, config.WorkerKey.EmailQueue, payload).Err(); err != nil {
		return fmt.Errorf("enqueue email: %w", err)
	}
	return nil
}
