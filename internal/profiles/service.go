package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("profile not found")

const selectColumns = `id,user_type,first_name,middle_name,last_name,contact_no,
	license_number,plate_number,vehicle_model,
	valid_id_url,vehicle_image_url,certificate_of_registration_url,drivers_license_url,
	created_at,updated_at`

// Service contains profile-record business logic.
type Service struct {
	db *pgxpool.Pool
}

// NewService creates a profile service backed by the given pool.
func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

// Create inserts the profile row for a freshly created account.
func (s *Service) Create(ctx context.Context, p *Profile) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO profiles (id,user_type,first_name,middle_name,last_name,contact_no,
		                       license_number,plate_number,vehicle_model)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		p.ID, p.UserType, p.FirstName, p.MiddleName, p.LastName, p.ContactNo,
		p.LicenseNumber, p.PlateNumber, p.VehicleModel)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// GetByID fetches a profile by account id.
func (s *Service) GetByID(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	err := s.db.QueryRow(ctx,
		`SELECT `+selectColumns+` FROM profiles WHERE id=$1`, id).
		Scan(&p.ID, &p.UserType, &p.FirstName, &p.MiddleName, &p.LastName, &p.ContactNo,
			&p.LicenseNumber, &p.PlateNumber, &p.VehicleModel,
			&p.ValidIDURL, &p.VehicleImageURL, &p.CertificateOfRegistrationURL, &p.DriversLicenseURL,
			&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// WaitForRecord polls until the profile row for the given account appears or
// the deadline passes. Account creation and profile creation are separate
// steps, so callers must not assume the row exists immediately.
func (s *Service) WaitForRecord(ctx context.Context, id string, timeout time.Duration) (*Profile, error) {
	deadline := time.Now().Add(timeout)
	for {
		p, err := s.GetByID(ctx, id)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		if time.Now().After(deadline) {
			return nil, ErrNotFound
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
}

// UpdateDocumentURLs writes the given document URL columns onto the profile.
// Unknown column names are rejected. An empty map is a no-op.
func (s *Service) UpdateDocumentURLs(ctx context.Context, id string, urls map[string]string) error {
	if len(urls) == 0 {
		return nil
	}

	allowed := map[string]bool{
		FieldValidIDURL:                   true,
		FieldVehicleImageURL:              true,
		FieldCertificateOfRegistrationURL: true,
		FieldDriversLicenseURL:            true,
	}

	sets := make([]string, 0, len(urls)+1)
	args := make([]any, 0, len(urls)+1)
	args = append(args, id)
	for col, url := range urls {
		if !allowed[col] {
			return fmt.Errorf("unknown document column %q", col)
		}
		args = append(args, url)
		sets = append(sets, fmt.Sprintf("%s=$%d", col, len(args)))
	}
	sets = append(sets, "updated_at=NOW()")

	tag, err := s.db.Exec(ctx,
		`UPDATE profiles SET `+strings.Join(sets, ", ")+` WHERE id=$1`, args...)
	if err != nil {
		return fmt.Errorf("update document urls: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Update applies a partial field update. The role column is never touched.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Profile, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE profiles SET
			first_name     = COALESCE($2, first_name),
			middle_name    = COALESCE($3, middle_name),
			last_name      = COALESCE($4, last_name),
			contact_no     = COALESCE($5, contact_no),
			license_number = COALESCE($6, license_number),
			plate_number   = COALESCE($7, plate_number),
			vehicle_model  = COALESCE($8, vehicle_model),
			updated_at     = NOW()
		 WHERE id=$1`,
		id, req.FirstName, req.MiddleName, req.LastName, req.ContactNo,
		req.LicenseNumber, req.PlateNumber, req.VehicleModel)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(ctx, id)
}
