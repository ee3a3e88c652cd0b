package sessions

import (
	"context"
	"encoding/json"
	"time"

	"registration-service/internal/profiles"
	"registration-service/pkg/redis"
)

// Session is the client-held view of who is currently signed in: the account
// alongside its profile record. It is derived state, never the source of
// truth, and expires with its TTL.
type Session struct {
	AccountID     string            `json:"account_id"`
	Email         string            `json:"email"`
	EmailVerified bool              `json:"email_verified"`
	Profile       *profiles.Profile `json:"profile"`
	SignedInAt    time.Time         `json:"signed_in_at"`
}

// Store keeps the current session per account in Redis. Writes replace any
// previous session for the same account: last successful auth event wins.
type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewStore(r *redis.Client) *Store {
	return &Store{redis: r, ttl: 24 * time.Hour}
}

// Save records the session after a successful auth state transition.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.redis.SaveSession(ctx, sess.AccountID, string(payload), s.ttl)
}

// Current returns the stored session, or nil if none exists.
func (s *Store) Current(ctx context.Context, accountID string) (*Session, error) {
	payload, ok, err := s.redis.GetSession(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var sess Session
	if err := json.Unmarshal([]byte(payload), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Clear removes the session on sign-out.
func (s *Store) Clear(ctx context.Context, accountID string) error {
	return s.redis.DeleteSession(ctx, accountID)
}
