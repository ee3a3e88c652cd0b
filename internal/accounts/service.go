package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"registration-service/internal/profiles"
	"registration-service/internal/sessions"
	"registration-service/pkg/logger"
)

var (
	ErrDuplicateAccount   = errors.New("email already registered")
	ErrWeakCredential     = errors.New("password must be at least 6 characters")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrProfileNotFound    = errors.New("profile record not found for account")
	ErrRoleMismatch       = errors.New("account registered under a different role")
	ErrNotFound           = errors.New("account not found")
)

// Service contains credential business logic. Successful CreateAccount,
// Authenticate, and session-restore calls write the session store;
// EndSession clears it.
type Service struct {
	db       *pgxpool.Pool
	profiles *profiles.Service
	sessions *sessions.Store
	log      logger.Logger
}

// NewService creates an account service.
func NewService(db *pgxpool.Pool, p *profiles.Service, s *sessions.Store, log logger.Logger) *Service {
	return &Service{db: db, profiles: p, sessions: s, log: log}
}

// CreateAccount registers a new identity and seeds its profile record from
// the forwarded attributes. The new account is not yet email-verified.
func (s *Service) CreateAccount(ctx context.Context, email, password string, attrs ProfileAttributes) (*Account, error) {
	if len(password) < 6 {
		return nil, ErrWeakCredential
	}

	var exists bool
	if err := s.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM accounts WHERE email=$1)", email).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrDuplicateAccount
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	now := time.Now()
	_, err = s.db.Exec(ctx,
		`INSERT INTO accounts (id,email,password_hash,phone,email_verified,created_at)
		 VALUES ($1,$2,$3,$4,FALSE,$5)`,
		id, email, string(hash), attrs.ContactNo, now)
	if err != nil {
		return nil, fmt.Errorf("insert account: %w", err)
	}

	if err := s.profiles.Create(ctx, &profiles.Profile{
		ID:            id,
		UserType:      attrs.UserType,
		FirstName:     attrs.FirstName,
		MiddleName:    attrs.MiddleName,
		LastName:      attrs.LastName,
		ContactNo:     attrs.ContactNo,
		LicenseNumber: attrs.LicenseNumber,
		PlateNumber:   attrs.PlateNumber,
		VehicleModel:  attrs.VehicleModel,
	}); err != nil {
		// The account stays usable; the profile poll downstream will report it.
		s.log.Error("profile seed failed", logger.String("account_id", id), logger.Error(err))
	}

	phone := attrs.ContactNo
	account := &Account{ID: id, Email: email, Phone: &phone, CreatedAt: now}

	if err := s.saveSession(ctx, account, nil); err != nil {
		s.log.Warn("session write after account creation failed", logger.Error(err))
	}
	return account, nil
}

// Authenticate verifies the credentials and fetches the matching profile
// record. A missing record is surfaced as ErrProfileNotFound rather than an
// empty profile.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Account, *profiles.Profile, error) {
	account, err := s.getByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	profile, err := s.profiles.GetByID(ctx, account.ID)
	if err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			return nil, nil, ErrProfileNotFound
		}
		return nil, nil, err
	}

	if err := s.saveSession(ctx, account, profile); err != nil {
		s.log.Warn("session write after login failed", logger.Error(err))
	}
	return account, profile, nil
}

// AuthenticateAs is Authenticate plus an explicit role check; signing in
// through the wrong role's entry point fails with ErrRoleMismatch.
func (s *Service) AuthenticateAs(ctx context.Context, email, password, role string) (*Account, *profiles.Profile, error) {
	account, profile, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}
	if err := CheckRole(profile, role); err != nil {
		return nil, nil, err
	}
	return account, profile, nil
}

// CheckRole dispatches on the profile's role with an equality comparison.
func CheckRole(profile *profiles.Profile, want string) error {
	if profile.UserType == want {
		return nil
	}
	return ErrRoleMismatch
}

// EndSession invalidates the current session for the account.
func (s *Service) EndSession(ctx context.Context, accountID string) error {
	return s.sessions.Clear(ctx, accountID)
}

// CurrentSession is a one-shot read of the session state. On a cache miss it
// restores the session from the store of record, mirroring app startup.
func (s *Service) CurrentSession(ctx context.Context, accountID string) (*sessions.Session, error) {
	sess, err := s.sessions.Current(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if sess != nil {
		return sess, nil
	}

	account, err := s.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	profile, err := s.profiles.GetByID(ctx, accountID)
	if err != nil && !errors.Is(err, profiles.ErrNotFound) {
		return nil, err
	}

	if err := s.saveSession(ctx, account, profile); err != nil {
		s.log.Warn("session restore write failed", logger.Error(err))
	}
	return s.sessions.Current(ctx, accountID)
}

// MarkEmailVerified flips the verified flag after a successful email-link
// verification.
func (s *Service) MarkEmailVerified(ctx context.Context, email string) error {
	tag, err := s.db.Exec(ctx,
		"UPDATE accounts SET email_verified=TRUE WHERE email=$1", email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID fetches an account by primary key.
func (s *Service) GetByID(ctx context.Context, id string) (*Account, error) {
	var a Account
	err := s.db.QueryRow(ctx,
		`SELECT id,email,password_hash,phone,email_verified,created_at FROM accounts WHERE id=$1`, id).
		Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Phone, &a.EmailVerified, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Service) getByEmail(ctx context.Context, email string) (*Account, error) {
	var a Account
	err := s.db.QueryRow(ctx,
		`SELECT id,email,password_hash,phone,email_verified,created_at FROM accounts WHERE email=$1`, email).
		Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Phone, &a.EmailVerified, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Service) saveSession(ctx context.Context, account *Account, profile *profiles.Profile) error {
	return s.sessions.Save(ctx, &sessions.Session{
		AccountID:     account.ID,
		Email:         account.Email,
		EmailVerified: account.EmailVerified,
		Profile:       profile,
		SignedInAt:    time.Now(),
	})
}
