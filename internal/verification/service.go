package verification

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"registration-service/pkg/logger"
	"registration-service/pkg/redis"
)

var ErrTokenInvalid = errors.New("invalid or expired verification token")

// AccountMarker flips an account's verified flag. Satisfied by the account
// service.
type AccountMarker interface {
	MarkEmailVerified(ctx context.Context, email string) error
}

// Service issues and redeems email-verification tokens. Tokens live in Redis
// with a TTL; issuing a new one supersedes the old.
type Service struct {
	redis    *redis.Client
	accounts AccountMarker
	mailer   *Mailer
	baseURL  string
	log      logger.Logger
	ttl      time.Duration
}

// NewService creates a verification service. Links point under baseURL.
func NewService(r *redis.Client, accounts AccountMarker, mailer *Mailer, baseURL string, log logger.Logger) *Service {
	return &Service{
		redis:    r,
		accounts: accounts,
		mailer:   mailer,
		baseURL:  baseURL,
		log:      log,
		ttl:      24 * time.Hour,
	}
}

// IssueToken creates a fresh verification token for the email.
func (s *Service) IssueToken(ctx context.Context, email string) (string, error) {
	token := uuid.New().String()
	if err := s.redis.SaveVerificationToken(ctx, email, token, s.ttl); err != nil {
		return "", fmt.Errorf("store verification token: %w", err)
	}
	return token, nil
}

// SendVerification issues a token and mails the verification link.
func (s *Service) SendVerification(ctx context.Context, email, firstName string) error {
	token, err := s.IssueToken(ctx, email)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/Verification?token=%s&email=%s",
		s.baseURL, url.QueryEscape(token), url.QueryEscape(email))

	if err := s.mailer.SendVerificationEmail(ctx, email, firstName, link); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	s.log.Info("verification email sent", logger.String("email", email))
	return nil
}

// Verify redeems a token for the email and marks the account verified. The
// token is single-use.
func (s *Service) Verify(ctx context.Context, email, token string) error {
	stored, ok, err := s.redis.GetVerificationToken(ctx, email)
	if err != nil {
		return err
	}
	if !ok || subtle.ConstantTimeCompare([]byte(stored), []byte(token)) != 1 {
		return ErrTokenInvalid
	}

	if err := s.accounts.MarkEmailVerified(ctx, email); err != nil {
		return err
	}
	_ = s.redis.DeleteVerificationToken(ctx, email)
	return nil
}
