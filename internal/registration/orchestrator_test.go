package registration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"registration-service/internal/accounts"
	"registration-service/internal/profiles"
	"registration-service/pkg/logger"
)

type fakeAccounts struct {
	store   *fakeProfiles
	created []string // emails
	err     error
}

func (f *fakeAccounts) CreateAccount(_ context.Context, email, _ string, attrs accounts.ProfileAttributes) (*accounts.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, email)
	id := fmt.Sprintf("acct-%d", len(f.created))
	f.store.records[id] = &profiles.Profile{
		ID:            id,
		UserType:      attrs.UserType,
		FirstName:     attrs.FirstName,
		LastName:      attrs.LastName,
		ContactNo:     attrs.ContactNo,
		LicenseNumber: attrs.LicenseNumber,
		PlateNumber:   attrs.PlateNumber,
		VehicleModel:  attrs.VehicleModel,
	}
	return &accounts.Account{ID: id, Email: email}, nil
}

type uploadCall struct {
	bucket    string
	accountID string
}

type fakeUploader struct {
	calls       []uploadCall
	failBuckets map[string]error
}

func (f *fakeUploader) Upload(_ context.Context, src io.Reader, bucket, accountID, _ string) (string, error) {
	f.calls = append(f.calls, uploadCall{bucket: bucket, accountID: accountID})
	if src == nil {
		return "", errors.New("no source")
	}
	if err, ok := f.failBuckets[bucket]; ok {
		return "", err
	}
	return fmt.Sprintf("https://files.test/%s/%s.jpeg", bucket, accountID), nil
}

type fakeProfiles struct {
	records   map[string]*profiles.Profile
	urlWrites []map[string]string
	updateErr error
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{records: make(map[string]*profiles.Profile)}
}

func (f *fakeProfiles) GetByID(_ context.Context, id string) (*profiles.Profile, error) {
	p, ok := f.records[id]
	if !ok {
		return nil, profiles.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfiles) WaitForRecord(ctx context.Context, id string, _ time.Duration) (*profiles.Profile, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeProfiles) UpdateDocumentURLs(_ context.Context, id string, urls map[string]string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.records[id]; !ok {
		return profiles.ErrNotFound
	}
	f.urlWrites = append(f.urlWrites, urls)
	return nil
}

func newTestOrchestrator(acc *fakeAccounts, up *fakeUploader, prof *fakeProfiles) *Orchestrator {
	o := NewOrchestrator(acc, up, prof, nil, logger.NewNop())
	o.profileWait = 10 * time.Millisecond
	return o
}

func TestRegisterPassengerHappyPath(t *testing.T) {
	prof := newFakeProfiles()
	acc := &fakeAccounts{store: prof}
	up := &fakeUploader{}
	o := newTestOrchestrator(acc, up, prof)

	result, err := o.RegisterPassenger(context.Background(), validPassengerForm())
	if err != nil {
		t.Fatalf("RegisterPassenger: %v", err)
	}

	if len(acc.created) != 1 || acc.created[0] != "a@b.com" {
		t.Fatalf("expected one account for a@b.com, got %v", acc.created)
	}
	if len(up.calls) != 1 {
		t.Fatalf("expected one upload, got %d", len(up.calls))
	}
	if up.calls[0].bucket != "valid-id" {
		t.Errorf("upload bucket = %q, want valid-id", up.calls[0].bucket)
	}
	if up.calls[0].accountID != result.Account.ID {
		t.Errorf("upload keyed by %q, want new account id %q", up.calls[0].accountID, result.Account.ID)
	}
	if len(prof.urlWrites) != 1 {
		t.Fatalf("expected one profile update, got %d", len(prof.urlWrites))
	}
	if _, ok := prof.urlWrites[0]["valid_id_url"]; !ok {
		t.Errorf("profile update %v lacks valid_id_url", prof.urlWrites[0])
	}
	if !result.PendingVerification {
		t.Error("email registration should report pending verification")
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

func TestRegisterPassengerValidationBlocksSubmission(t *testing.T) {
	prof := newFakeProfiles()
	acc := &fakeAccounts{store: prof}
	up := &fakeUploader{}
	o := newTestOrchestrator(acc, up, prof)

	f := validPassengerForm()
	f.Password = "abc"
	f.ConfirmPassword = "abc"

	_, err := o.RegisterPassenger(context.Background(), f)
	var regErr *Error
	if !errors.As(err, &regErr) || regErr.Stage != StageValidating {
		t.Fatalf("expected validation-stage error, got %v", err)
	}
	if _, ok := regErr.Fields["password"]; !ok {
		t.Errorf("field errors %v lack password", regErr.Fields)
	}
	if len(acc.created) != 0 || len(up.calls) != 0 || len(prof.urlWrites) != 0 {
		t.Error("validation failure must make zero backend calls")
	}
}

func TestRegisterAccountCreationFailureHaltsAttempt(t *testing.T) {
	prof := newFakeProfiles()
	acc := &fakeAccounts{store: prof, err: accounts.ErrDuplicateAccount}
	up := &fakeUploader{}
	o := newTestOrchestrator(acc, up, prof)

	_, err := o.RegisterPassenger(context.Background(), validPassengerForm())
	var regErr *Error
	if !errors.As(err, &regErr) || regErr.Stage != StageCreatingAccount {
		t.Fatalf("expected creating-account-stage error, got %v", err)
	}
	if !errors.Is(err, accounts.ErrDuplicateAccount) {
		t.Errorf("cause not preserved: %v", err)
	}
	if len(up.calls) != 0 {
		t.Error("no upload may be attempted after account creation fails")
	}
	if len(prof.urlWrites) != 0 {
		t.Error("no profile update may be attempted after account creation fails")
	}
}

func TestRegisterDriverPartialUploadFailure(t *testing.T) {
	prof := newFakeProfiles()
	acc := &fakeAccounts{store: prof}
	up := &fakeUploader{failBuckets: map[string]error{
		"certificate-of-registration": errors.New("network failure"),
	}}
	o := newTestOrchestrator(acc, up, prof)

	result, err := o.RegisterDriver(context.Background(), validDriverForm())
	if err != nil {
		t.Fatalf("RegisterDriver: %v", err)
	}

	if len(up.calls) != 3 {
		t.Fatalf("expected all three uploads attempted, got %d", len(up.calls))
	}
	if len(prof.urlWrites) != 1 {
		t.Fatalf("profile update must still run with the succeeded URLs")
	}
	urls := prof.urlWrites[0]
	if len(urls) != 2 {
		t.Fatalf("expected the two succeeded URLs, got %v", urls)
	}
	if _, ok := urls["vehicle_image_url"]; !ok {
		t.Errorf("urls %v lack vehicle_image_url", urls)
	}
	if _, ok := urls["drivers_license_url"]; !ok {
		t.Errorf("urls %v lack drivers_license_url", urls)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("a single failed upload should surface one warning, got %v", result.Warnings)
	}
}

func TestRegisterDriverUploadsInObservedOrder(t *testing.T) {
	prof := newFakeProfiles()
	acc := &fakeAccounts{store: prof}
	up := &fakeUploader{}
	o := newTestOrchestrator(acc, up, prof)

	if _, err := o.RegisterDriver(context.Background(), validDriverForm()); err != nil {
		t.Fatalf("RegisterDriver: %v", err)
	}

	want := []string{"vehicles", "certificate-of-registration", "driver-id"}
	for i, bucket := range want {
		if up.calls[i].bucket != bucket {
			t.Errorf("upload %d hit %q, want %q", i, up.calls[i].bucket, bucket)
		}
	}
}

func TestRegisterDriverNormalizesPlateNumber(t *testing.T) {
	prof := newFakeProfiles()
	acc := &fakeAccounts{store: prof}
	o := newTestOrchestrator(acc, &fakeUploader{}, prof)

	result, err := o.RegisterDriver(context.Background(), validDriverForm())
	if err != nil {
		t.Fatalf("RegisterDriver: %v", err)
	}
	p := prof.records[result.Account.ID]
	if p.PlateNumber == nil || *p.PlateNumber != "ABC1234" {
		t.Errorf("plate number not upper-cased: %v", p.PlateNumber)
	}
}

func TestRegisterProfileUpdateFailureIsWarningOnly(t *testing.T) {
	prof := newFakeProfiles()
	prof.updateErr = errors.New("write timeout")
	acc := &fakeAccounts{store: prof}
	o := newTestOrchestrator(acc, &fakeUploader{}, prof)

	result, err := o.RegisterPassenger(context.Background(), validPassengerForm())
	if err != nil {
		t.Fatalf("profile sync failure must not fail the attempt: %v", err)
	}
	if len(result.Warnings) == 0 {
		t.Error("profile sync failure should surface a warning")
	}
	if result.Account == nil {
		t.Error("account must survive a profile sync failure")
	}
}
