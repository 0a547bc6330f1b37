package scheduling

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

type failingSource struct {
	err error
}

func (f failingSource) ListAppointments(context.Context) ([]Appointment, error) { return nil, f.err }
func (f failingSource) SearchAppointments(context.Context, Criteria) ([]Appointment, error) {
	return nil, f.err
}
func (f failingSource) GetAppointment(context.Context, int) (*Appointment, error) { return nil, f.err }
func (f failingSource) CreateAppointment(context.Context, AppointmentForm) (*Appointment, error) {
	return nil, f.err
}
func (f failingSource) UpdateAppointment(context.Context, int, UpdatePayload) (*Appointment, error) {
	return nil, f.err
}
func (f failingSource) DeleteAppointment(context.Context, int) error { return f.err }

func TestFallbackSource_ReadsFallBack(t *testing.T) {
	var ops []string
	src := NewFallbackSource(failingSource{err: errors.New("dial tcp: connection refused")}, NewSampleSource(), zerolog.Nop(),
		func(op string, _ error) { ops = append(ops, op) })
	ctx := context.Background()

	items, err := src.ListAppointments(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != len(SampleAppointments()) {
		t.Errorf("expected sample appointments, got %d", len(items))
	}

	found, err := src.SearchAppointments(ctx, Criteria{Name: "ramesh"})
	if err != nil || len(found) != 1 {
		t.Errorf("expected one sample match, got %d (%v)", len(found), err)
	}

	if _, err := src.GetAppointment(ctx, 2); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(ops) != 3 {
		t.Errorf("expected three fallback notifications, got %v", ops)
	}
}

func TestFallbackSource_WritesPropagate(t *testing.T) {
	storeErr := errors.New("HTTP error, status 503")
	src := NewFallbackSource(failingSource{err: storeErr}, NewSampleSource(), zerolog.Nop(), nil)
	ctx := context.Background()

	if _, err := src.CreateAppointment(ctx, validForm()); !errors.Is(err, storeErr) {
		t.Errorf("expected create error to propagate, got %v", err)
	}
	if _, err := src.UpdateAppointment(ctx, 1, UpdatePayload{}); !errors.Is(err, storeErr) {
		t.Errorf("expected update error to propagate, got %v", err)
	}
	if err := src.DeleteAppointment(ctx, 1); !errors.Is(err, storeErr) {
		t.Errorf("expected delete error to propagate, got %v", err)
	}
}

func TestFallbackSource_NotFoundIsNotDegraded(t *testing.T) {
	called := false
	src := NewFallbackSource(failingSource{err: ErrNotFound}, NewSampleSource(), zerolog.Nop(),
		func(string, error) { called = true })

	if _, err := src.GetAppointment(context.Background(), 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound from primary, got %v", err)
	}
	if called {
		t.Error("not found must not trigger the fallback")
	}
}

func TestFallbackSource_CanceledIsNotDegraded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := NewFallbackSource(failingSource{err: context.Canceled}, NewSampleSource(), zerolog.Nop(), nil)
	if _, err := src.ListAppointments(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
