package identity

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// Directory is the combined patient and doctor store.
type Directory interface {
	PatientSource
	DoctorSource
}

// FallbackDirectory serves patient and doctor reads from a fallback directory
// when the primary fails. Writes go to the primary only.
type FallbackDirectory struct {
	primary    Directory
	fallback   Directory
	logger     zerolog.Logger
	onFallback func(op string, err error)
}

// NewFallbackDirectory wraps primary. onFallback may be nil.
func NewFallbackDirectory(primary, fallback Directory, logger zerolog.Logger, onFallback func(op string, err error)) *FallbackDirectory {
	if onFallback == nil {
		onFallback = func(string, error) {}
	}
	return &FallbackDirectory{primary: primary, fallback: fallback, logger: logger, onFallback: onFallback}
}

func (d *FallbackDirectory) degrade(ctx context.Context, op string, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || IsNotFound(err) {
		return false
	}
	d.logger.Warn().Err(err).Str("operation", op).Msg("store unavailable, serving sample data")
	d.onFallback(op, err)
	return true
}

func (d *FallbackDirectory) ListPatients(ctx context.Context) ([]Patient, error) {
	items, err := d.primary.ListPatients(ctx)
	if err != nil && d.degrade(ctx, "list_patients", err) {
		return d.fallback.ListPatients(ctx)
	}
	return items, err
}

func (d *FallbackDirectory) SearchPatients(ctx context.Context, q string) ([]Patient, error) {
	items, err := d.primary.SearchPatients(ctx, q)
	if err != nil && d.degrade(ctx, "search_patients", err) {
		return d.fallback.SearchPatients(ctx, q)
	}
	return items, err
}

func (d *FallbackDirectory) GetPatient(ctx context.Context, id int) (*Patient, error) {
	p, err := d.primary.GetPatient(ctx, id)
	if err != nil && d.degrade(ctx, "get_patient", err) {
		return d.fallback.GetPatient(ctx, id)
	}
	return p, err
}

func (d *FallbackDirectory) ListDoctors(ctx context.Context) ([]Doctor, error) {
	items, err := d.primary.ListDoctors(ctx)
	if err != nil && d.degrade(ctx, "list_doctors", err) {
		return d.fallback.ListDoctors(ctx)
	}
	return items, err
}

func (d *FallbackDirectory) CreatePatient(ctx context.Context, f PatientForm) (*Patient, error) {
	return d.primary.CreatePatient(ctx, f)
}

func (d *FallbackDirectory) UpdatePatient(ctx context.Context, id int, f PatientForm) (*Patient, error) {
	return d.primary.UpdatePatient(ctx, id, f)
}

func (d *FallbackDirectory) DeletePatient(ctx context.Context, id int) error {
	return d.primary.DeletePatient(ctx, id)
}
