package documents

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"registration-service/pkg/logger"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewDiskStore(dir, Buckets(), 1)
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	return NewService(store, "https://api.test/", nil, logger.NewNop()), dir
}

func TestObjectKeyIdempotent(t *testing.T) {
	first := ObjectKey("acct-1", "photo.JPG")
	second := ObjectKey("acct-1", "retaken.jpg")
	if first != second {
		t.Errorf("same account and extension must derive the same key: %q vs %q", first, second)
	}
	if first != "acct-1.jpg" {
		t.Errorf("key = %q, want acct-1.jpg", first)
	}
}

func TestObjectKeyDefaultsExtension(t *testing.T) {
	if got := ObjectKey("acct-1", "picked-file"); got != "acct-1.jpeg" {
		t.Errorf("key = %q, want acct-1.jpeg", got)
	}
}

func TestUploadReturnsDurableURL(t *testing.T) {
	svc, dir := newTestService(t)

	url, err := svc.Upload(context.Background(), strings.NewReader("bytes"), BucketValidID, "acct-1", "id.png")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "https://api.test/files/valid-id/acct-1.png" {
		t.Errorf("url = %q", url)
	}
	if _, err := os.Stat(filepath.Join(dir, BucketValidID, "acct-1.png")); err != nil {
		t.Errorf("object not stored: %v", err)
	}
}

func TestUploadOverwrites(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	first, err := svc.Upload(ctx, strings.NewReader("old"), BucketValidID, "acct-1", "id.jpg")
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}
	second, err := svc.Upload(ctx, strings.NewReader("new"), BucketValidID, "acct-1", "id.jpg")
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if first != second {
		t.Errorf("re-upload must resolve the same URL: %q vs %q", first, second)
	}

	data, err := os.ReadFile(filepath.Join(dir, BucketValidID, "acct-1.jpg"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new" {
		t.Errorf("object content = %q, want the re-uploaded bytes", data)
	}
}

func TestUploadNoSource(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Upload(context.Background(), nil, BucketValidID, "acct-1", ""); !errors.Is(err, ErrNoSource) {
		t.Errorf("err = %v, want ErrNoSource", err)
	}
}

func TestUploadUnknownBucket(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Upload(context.Background(), strings.NewReader("x"), "no-such-bucket", "acct-1", "id.jpg")
	if !errors.Is(err, ErrBucketNotFound) {
		t.Errorf("err = %v, want ErrBucketNotFound", err)
	}
}

func TestUploadPayloadTooLarge(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, []string{BucketValidID}, 1)
	if err != nil {
		t.Fatal(err)
	}
	svc := NewService(store, "https://api.test", nil, logger.NewNop())

	oversize := strings.NewReader(strings.Repeat("a", 1024*1024+1))
	_, err = svc.Upload(context.Background(), oversize, BucketValidID, "acct-1", "big.jpg")
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Errorf("err = %v, want ErrPayloadTooLarge", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, BucketValidID, "acct-1.jpg")); !os.IsNotExist(statErr) {
		t.Error("oversize object must not be left behind")
	}
}

func TestProfileColumn(t *testing.T) {
	tests := []struct {
		bucket string
		column string
	}{
		{BucketValidID, "valid_id_url"},
		{BucketVehicles, "vehicle_image_url"},
		{BucketCertificateOfRegistration, "certificate_of_registration_url"},
		{BucketDriverID, "drivers_license_url"},
	}
	for _, tt := range tests {
		col, ok := ProfileColumn(tt.bucket)
		if !ok || col != tt.column {
			t.Errorf("ProfileColumn(%q) = %q,%v, want %q", tt.bucket, col, ok, tt.column)
		}
	}
	if _, ok := ProfileColumn("unknown"); ok {
		t.Error("unknown bucket must not map to a column")
	}
}
