package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type Service struct {
	patients PatientSource
	doctors  DoctorSource
	logger   zerolog.Logger
	now      func() time.Time
}

func NewService(patients PatientSource, doctors DoctorSource, logger zerolog.Logger) *Service {
	return &Service{patients: patients, doctors: doctors, logger: logger, now: time.Now}
}

// -- Patient --

func (s *Service) ListPatients(ctx context.Context) ([]Patient, error) {
	items, err := s.patients.ListPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return items, nil
}

func (s *Service) GetPatient(ctx context.Context, id int) (*Patient, error) {
	p, err := s.patients.GetPatient(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get patient %d: %w", id, err)
	}
	return p, nil
}

// SearchPatients lists everything when q is empty.
func (s *Service) SearchPatients(ctx context.Context, q string) ([]Patient, error) {
	if q == "" {
		return s.ListPatients(ctx)
	}
	items, err := s.patients.SearchPatients(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search patients: %w", err)
	}
	return items, nil
}

func (s *Service) CreatePatient(ctx context.Context, f PatientForm) (*Patient, error) {
	f = f.Normalize()
	if verrs := ValidatePatient(f, s.now()); verrs != nil {
		return nil, verrs
	}
	p, err := s.patients.CreatePatient(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	s.logger.Info().Int("patient_id", p.ID).Msg("patient created")
	return p, nil
}

func (s *Service) UpdatePatient(ctx context.Context, id int, f PatientForm) (*Patient, error) {
	f = f.Normalize()
	if verrs := ValidatePatient(f, s.now()); verrs != nil {
		return nil, verrs
	}
	p, err := s.patients.UpdatePatient(ctx, id, f)
	if err != nil {
		return nil, fmt.Errorf("update patient %d: %w", id, err)
	}
	s.logger.Info().Int("patient_id", id).Msg("patient updated")
	return p, nil
}

func (s *Service) DeletePatient(ctx context.Context, id int) error {
	if err := s.patients.DeletePatient(ctx, id); err != nil {
		return fmt.Errorf("delete patient %d: %w", id, err)
	}
	s.logger.Info().Int("patient_id", id).Msg("patient deleted")
	return nil
}

// -- Doctor --

func (s *Service) ListDoctors(ctx context.Context) ([]Doctor, error) {
	items, err := s.doctors.ListDoctors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return items, nil
}
