package scheduling

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// FallbackSource serves reads from a fallback source when the primary fails.
// Writes always go to the primary and their errors are returned untouched:
// demo mode never fakes a successful mutation.
type FallbackSource struct {
	primary    AppointmentSource
	fallback   AppointmentSource
	logger     zerolog.Logger
	onFallback func(op string, err error)
}

// NewFallbackSource wraps primary. onFallback may be nil.
func NewFallbackSource(primary, fallback AppointmentSource, logger zerolog.Logger, onFallback func(op string, err error)) *FallbackSource {
	if onFallback == nil {
		onFallback = func(string, error) {}
	}
	return &FallbackSource{primary: primary, fallback: fallback, logger: logger, onFallback: onFallback}
}

func (s *FallbackSource) degrade(ctx context.Context, op string, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || IsNotFound(err) {
		return false
	}
	s.logger.Warn().Err(err).Str("operation", op).Msg("store unavailable, serving sample data")
	s.onFallback(op, err)
	return true
}

func (s *FallbackSource) ListAppointments(ctx context.Context) ([]Appointment, error) {
	items, err := s.primary.ListAppointments(ctx)
	if err != nil && s.degrade(ctx, "list_appointments", err) {
		return s.fallback.ListAppointments(ctx)
	}
	return items, err
}

func (s *FallbackSource) SearchAppointments(ctx context.Context, c Criteria) ([]Appointment, error) {
	items, err := s.primary.SearchAppointments(ctx, c)
	if err != nil && s.degrade(ctx, "search_appointments", err) {
		return s.fallback.SearchAppointments(ctx, c)
	}
	return items, err
}

func (s *FallbackSource) GetAppointment(ctx context.Context, id int) (*Appointment, error) {
	a, err := s.primary.GetAppointment(ctx, id)
	if err != nil && s.degrade(ctx, "get_appointment", err) {
		return s.fallback.GetAppointment(ctx, id)
	}
	return a, err
}

func (s *FallbackSource) CreateAppointment(ctx context.Context, f AppointmentForm) (*Appointment, error) {
	return s.primary.CreateAppointment(ctx, f)
}

func (s *FallbackSource) UpdateAppointment(ctx context.Context, id int, p UpdatePayload) (*Appointment, error) {
	return s.primary.UpdateAppointment(ctx, id, p)
}

func (s *FallbackSource) DeleteAppointment(ctx context.Context, id int) error {
	return s.primary.DeleteAppointment(ctx, id)
}
