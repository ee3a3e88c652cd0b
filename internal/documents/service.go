package documents

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"registration-service/internal/events"
	"registration-service/internal/profiles"
	"registration-service/pkg/kafka"
	"registration-service/pkg/logger"
)

// Storage buckets. Names come from the deployed object-storage layout.
const (
	BucketValidID                   = "valid-id"
	BucketVehicles                  = "vehicles"
	BucketCertificateOfRegistration = "certificate-of-registration"
	BucketDriverID                  = "driver-id"
)

// Buckets lists every bucket the service writes to.
func Buckets() []string {
	return []string{
		BucketValidID,
		BucketVehicles,
		BucketCertificateOfRegistration,
		BucketDriverID,
	}
}

var bucketColumns = map[string]string{
	BucketValidID:                   profiles.FieldValidIDURL,
	BucketVehicles:                  profiles.FieldVehicleImageURL,
	BucketCertificateOfRegistration: profiles.FieldCertificateOfRegistrationURL,
	BucketDriverID:                  profiles.FieldDriversLicenseURL,
}

// ProfileColumn maps a bucket to the profile column that holds its URL.
func ProfileColumn(bucket string) (string, bool) {
	col, ok := bucketColumns[bucket]
	return col, ok
}

// ObjectKey derives the storage key for an account's document from the source
// file name. The key depends only on the account and extension, so a
// re-upload overwrites the previous object instead of orphaning it.
func ObjectKey(accountID, filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		ext = "jpeg"
	}
	return accountID + "." + ext
}

// Service is the document upload pipeline: derive a stable key, transfer the
// bytes, resolve the durable public URL. Each call handles exactly one
// document.
type Service struct {
	store   Store
	baseURL string
	kafka   *kafka.Client
	log     logger.Logger
}

// NewService creates an upload pipeline publishing URLs under baseURL.
func NewService(store Store, baseURL string, k *kafka.Client, log logger.Logger) *Service {
	return &Service{store: store, baseURL: strings.TrimSuffix(baseURL, "/"), kafka: k, log: log}
}

// Upload transfers one document and returns its durable public URL.
func (s *Service) Upload(ctx context.Context, src io.Reader, bucket, accountID, filename string) (string, error) {
	if src == nil {
		return "", ErrNoSource
	}

	key := ObjectKey(accountID, filename)
	if err := s.store.Put(ctx, bucket, key, src); err != nil {
		s.log.Error("document transfer failed",
			logger.String("bucket", bucket),
			logger.String("key", key),
			logger.Error(err))
		return "", err
	}

	url := fmt.Sprintf("%s/files/%s/%s", s.baseURL, bucket, key)
	s.log.Info("document stored",
		logger.String("bucket", bucket),
		logger.String("key", key),
		logger.String("url", url))

	if s.kafka != nil {
		go func() {
			ev := events.DocumentUploadedEvent{
				AccountID: accountID,
				Bucket:    bucket,
				Key:       key,
				PublicURL: url,
			}
			if err := s.kafka.Publish(context.Background(), kafka.TopicDocumentUploaded, accountID, ev); err != nil {
				s.log.Warn("failed to publish document.uploaded", logger.Error(err))
			}
		}()
	}

	return url, nil
}
