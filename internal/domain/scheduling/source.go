package scheduling

import (
	"context"
	"errors"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidReference = errors.New("appointment does not exist")
	ErrSlotTaken        = errors.New("doctor already has an appointment at that date and time")
	ErrBusy             = errors.New("another request is still in flight")
	ErrStatusLocked     = errors.New("appointment status is final")
)

// AppointmentSource is the store the controller reads from and writes to.
// Implementations: the REST client, SampleSource and FallbackSource.
type AppointmentSource interface {
	ListAppointments(ctx context.Context) ([]Appointment, error)
	SearchAppointments(ctx context.Context, c Criteria) ([]Appointment, error)
	GetAppointment(ctx context.Context, id int) (*Appointment, error)
	CreateAppointment(ctx context.Context, f AppointmentForm) (*Appointment, error)
	UpdateAppointment(ctx context.Context, id int, p UpdatePayload) (*Appointment, error)
	DeleteAppointment(ctx context.Context, id int) error
}

// IsNotFound reports whether err signals a missing record: ErrNotFound, or any
// error in the chain exposing NotFound() bool.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var nf interface{ NotFound() bool }
	return errors.As(err, &nf) && nf.NotFound()
}
