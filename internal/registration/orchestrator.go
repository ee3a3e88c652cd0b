package registration

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"registration-service/internal/accounts"
	"registration-service/internal/documents"
	"registration-service/internal/events"
	"registration-service/internal/profiles"
	"registration-service/pkg/kafka"
	"registration-service/pkg/logger"
)

// Stages of one registration attempt.
type Stage string

const (
	StageValidating         Stage = "validating"
	StageCreatingAccount    Stage = "creating_account"
	StageUploadingDocuments Stage = "uploading_documents"
	StageUpdatingProfile    Stage = "updating_profile"
	StageDone               Stage = "done"
)

// Error is a terminal failure of a registration attempt, carrying the stage
// it failed in. Validation failures additionally carry the per-field messages.
type Error struct {
	Stage  Stage
	Fields map[string]string
	Cause  error
}

func (e *Error) Error() string {
	if e.Stage == StageValidating {
		return "registration failed validation"
	}
	return fmt.Sprintf("registration failed during %s: %v", e.Stage, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Result is the outcome of an attempt that got past account creation.
// Warnings report best-effort steps that failed without aborting the attempt.
type Result struct {
	Account             *accounts.Account `json:"account"`
	Profile             *profiles.Profile `json:"profile,omitempty"`
	DocumentURLs        map[string]string `json:"document_urls"`
	Warnings            []string          `json:"warnings,omitempty"`
	PendingVerification bool              `json:"pending_verification"`
}

// AccountCreator creates the identity and seeds its profile record.
type AccountCreator interface {
	CreateAccount(ctx context.Context, email, password string, attrs accounts.ProfileAttributes) (*accounts.Account, error)
}

// Uploader transfers a single document and resolves its public URL.
type Uploader interface {
	Upload(ctx context.Context, src io.Reader, bucket, accountID, filename string) (string, error)
}

// ProfileStore is the subset of the profile service the orchestrator needs.
type ProfileStore interface {
	WaitForRecord(ctx context.Context, id string, timeout time.Duration) (*profiles.Profile, error)
	UpdateDocumentURLs(ctx context.Context, id string, urls map[string]string) error
	GetByID(ctx context.Context, id string) (*profiles.Profile, error)
}

// Publisher emits domain events. May be nil when eventing is disabled.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

// Orchestrator sequences one registration attempt:
// Validating → CreatingAccount → UploadingDocuments → UpdatingProfile → Done.
// The sequence is compensating, not transactional: nothing undoes a prior
// step, and account creation is the point of no return.
type Orchestrator struct {
	accounts    AccountCreator
	uploader    Uploader
	profiles    ProfileStore
	publisher   Publisher
	log         logger.Logger
	profileWait time.Duration
}

// NewOrchestrator wires the registration sequence.
func NewOrchestrator(a AccountCreator, u Uploader, p ProfileStore, pub Publisher, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		accounts:    a,
		uploader:    u,
		profiles:    p,
		publisher:   pub,
		log:         log,
		profileWait: 3 * time.Second,
	}
}

type documentUpload struct {
	bucket string
	doc    *Document
}

// RegisterPassenger runs one passenger registration attempt.
func (o *Orchestrator) RegisterPassenger(ctx context.Context, f *PassengerForm) (*Result, error) {
	if errs := f.Validate(); len(errs) > 0 {
		return nil, &Error{Stage: StageValidating, Fields: errs}
	}
	attrs := accounts.ProfileAttributes{
		UserType:   profiles.RolePassenger,
		FirstName:  f.FirstName,
		MiddleName: f.MiddleName,
		LastName:   f.LastName,
		ContactNo:  f.ContactNo,
	}
	return o.register(ctx, f.Email, f.Password, attrs, []documentUpload{
		{documents.BucketValidID, f.ValidID},
	})
}

// RegisterDriver runs one driver registration attempt. Documents upload in
// the fixed order vehicle image → registration certificate → license.
func (o *Orchestrator) RegisterDriver(ctx context.Context, f *DriverForm) (*Result, error) {
	if errs := f.Validate(); len(errs) > 0 {
		return nil, &Error{Stage: StageValidating, Fields: errs}
	}
	plate := strings.ToUpper(f.PlateNumber)
	attrs := accounts.ProfileAttributes{
		UserType:      profiles.RoleDriver,
		FirstName:     f.FirstName,
		MiddleName:    f.MiddleName,
		LastName:      f.LastName,
		ContactNo:     f.PhoneNumber,
		LicenseNumber: &f.LicenseNumber,
		PlateNumber:   &plate,
		VehicleModel:  &f.VehicleModel,
	}
	return o.register(ctx, f.Email, f.Password, attrs, []documentUpload{
		{documents.BucketVehicles, f.VehicleImage},
		{documents.BucketCertificateOfRegistration, f.CertificateOfRegistration},
		{documents.BucketDriverID, f.DriversLicense},
	})
}

func (o *Orchestrator) register(ctx context.Context, email, password string, attrs accounts.ProfileAttributes, docs []documentUpload) (*Result, error) {
	// CreatingAccount: a failure here halts the whole attempt; without an
	// account there is no valid key for any later step.
	account, err := o.accounts.CreateAccount(ctx, email, password, attrs)
	if err != nil {
		return nil, &Error{Stage: StageCreatingAccount, Cause: err}
	}

	result := &Result{
		Account:             account,
		DocumentURLs:        make(map[string]string),
		PendingVerification: true,
	}

	// UploadingDocuments: each document is independent. A failed upload
	// leaves the account intact and becomes a warning, not a rollback.
	for _, d := range docs {
		column, ok := documents.ProfileColumn(d.bucket)
		if !ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf("no profile column for bucket %s", d.bucket))
			continue
		}
		var src io.Reader
		var filename string
		if d.doc != nil {
			src = d.doc.Data
			filename = d.doc.Filename
		}
		url, err := o.uploader.Upload(ctx, src, d.bucket, account.ID, filename)
		if err != nil {
			o.log.Warn("document upload failed",
				logger.String("bucket", d.bucket),
				logger.String("account_id", account.ID),
				logger.Error(err))
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s upload failed; you can update it in your profile", d.bucket))
			continue
		}
		result.DocumentURLs[column] = url
	}

	// UpdatingProfile: the record is created alongside the account, but not
	// assumed — await it with a bounded poll before writing URLs.
	profile, err := o.profiles.WaitForRecord(ctx, account.ID, o.profileWait)
	if err != nil {
		result.Warnings = append(result.Warnings, "profile record did not appear; document links not saved")
	} else {
		if len(result.DocumentURLs) > 0 {
			if err := o.profiles.UpdateDocumentURLs(ctx, account.ID, result.DocumentURLs); err != nil {
				o.log.Warn("profile update failed",
					logger.String("account_id", account.ID),
					logger.Error(err))
				result.Warnings = append(result.Warnings, "documents uploaded, but profile update failed")
			} else if refreshed, err := o.profiles.GetByID(ctx, account.ID); err == nil {
				profile = refreshed
			}
		}
		result.Profile = profile
	}

	// Done.
	if o.publisher != nil {
		ev := events.UserRegisteredEvent{
			AccountID:           account.ID,
			Email:               account.Email,
			Role:                attrs.UserType,
			FirstName:           attrs.FirstName,
			PendingVerification: result.PendingVerification,
			RegisteredAt:        time.Now().Format(time.RFC3339),
		}
		go func() {
			if err := o.publisher.Publish(context.Background(), kafka.TopicUserRegistered, account.ID, ev); err != nil {
				o.log.Warn("failed to publish user.registered", logger.Error(err))
			}
		}()
	}

	return result, nil
}
