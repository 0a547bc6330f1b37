package identity

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// PatientSource is the patient store.
type PatientSource interface {
	ListPatients(ctx context.Context) ([]Patient, error)
	GetPatient(ctx context.Context, id int) (*Patient, error)
	SearchPatients(ctx context.Context, q string) ([]Patient, error)
	CreatePatient(ctx context.Context, f PatientForm) (*Patient, error)
	UpdatePatient(ctx context.Context, id int, f PatientForm) (*Patient, error)
	DeletePatient(ctx context.Context, id int) error
}

// DoctorSource is the read-only doctor roster.
type DoctorSource interface {
	ListDoctors(ctx context.Context) ([]Doctor, error)
}

// IsNotFound reports whether err signals a missing record.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var nf interface{ NotFound() bool }
	return errors.As(err, &nf) && nf.NotFound()
}
