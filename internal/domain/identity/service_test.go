package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// -- Mock Directory --

type mockDirectory struct {
	*SampleDirectory
	created []PatientForm
	updated []PatientForm
	err     error
}

func newMockDirectory() *mockDirectory {
	return &mockDirectory{SampleDirectory: NewSampleDirectory()}
}

func (m *mockDirectory) CreatePatient(ctx context.Context, f PatientForm) (*Patient, error) {
	m.created = append(m.created, f)
	if m.err != nil {
		return nil, m.err
	}
	return m.SampleDirectory.CreatePatient(ctx, f)
}

func (m *mockDirectory) UpdatePatient(ctx context.Context, id int, f PatientForm) (*Patient, error) {
	m.updated = append(m.updated, f)
	if m.err != nil {
		return nil, m.err
	}
	return m.SampleDirectory.UpdatePatient(ctx, id, f)
}

func (m *mockDirectory) ListPatients(ctx context.Context) ([]Patient, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.SampleDirectory.ListPatients(ctx)
}

func (m *mockDirectory) SearchPatients(ctx context.Context, q string) ([]Patient, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.SampleDirectory.SearchPatients(ctx, q)
}

func (m *mockDirectory) GetPatient(ctx context.Context, id int) (*Patient, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.SampleDirectory.GetPatient(ctx, id)
}

func (m *mockDirectory) ListDoctors(ctx context.Context) ([]Doctor, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.SampleDirectory.ListDoctors(ctx)
}

func newTestService(dir *mockDirectory) *Service {
	svc := NewService(dir, dir, zerolog.Nop())
	svc.now = func() time.Time { return today }
	return svc
}

// -- Tests --

func TestService_CreatePatient(t *testing.T) {
	dir := newMockDirectory()
	svc := newTestService(dir)

	p, err := svc.CreatePatient(context.Background(), validPatient())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != 5 {
		t.Errorf("expected id 5, got %d", p.ID)
	}
	if len(dir.created) != 1 {
		t.Fatalf("expected one create call, got %d", len(dir.created))
	}
}

func TestService_CreatePatientNullsEDDWithoutANC(t *testing.T) {
	dir := newMockDirectory()
	svc := newTestService(dir)

	f := validPatient()
	f.IsANC = ANCNo
	f.ExpectedDeliveryDate = ptrStr("2026-03-01")
	if _, err := svc.CreatePatient(context.Background(), f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir.created[0].ExpectedDeliveryDate != nil {
		t.Error("expected EDD to be null in the submitted form")
	}
}

func TestService_CreatePatientValidationNeverReachesStore(t *testing.T) {
	dir := newMockDirectory()
	svc := newTestService(dir)

	f := validPatient()
	f.Mobile = "123"
	_, err := svc.CreatePatient(context.Background(), f)
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if len(dir.created) != 0 {
		t.Error("expected no store call")
	}
}

func TestService_UpdatePatient(t *testing.T) {
	dir := newMockDirectory()
	svc := newTestService(dir)

	f := SamplePatients()[0].Form()
	f.Address = "99 Residency Road, Bengaluru"
	p, err := svc.UpdatePatient(context.Background(), 1, f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Address != f.Address {
		t.Errorf("expected address updated, got %q", p.Address)
	}

	if _, err := svc.UpdatePatient(context.Background(), 99, f); !IsNotFound(err) {
		t.Errorf("expected not found for unknown id, got %v", err)
	}
}

func TestService_SearchPatients(t *testing.T) {
	svc := newTestService(newMockDirectory())

	all, err := svc.SearchPatients(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != len(SamplePatients()) {
		t.Errorf("expected empty query to list everything, got %d", len(all))
	}

	found, _ := svc.SearchPatients(context.Background(), "PATEL")
	if len(found) != 1 || found[0].Name != "Sunita Patel" {
		t.Errorf("expected Sunita Patel, got %+v", found)
	}
}

func TestService_DeletePatient(t *testing.T) {
	svc := newTestService(newMockDirectory())
	ctx := context.Background()

	if err := svc.DeletePatient(ctx, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetPatient(ctx, 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestService_StoreErrorsAreWrapped(t *testing.T) {
	dir := newMockDirectory()
	dir.err = errors.New("HTTP error, status 500")
	svc := newTestService(dir)

	_, err := svc.ListDoctors(context.Background())
	if !errors.Is(err, dir.err) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if err.Error() != "list doctors: HTTP error, status 500" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestFallbackDirectory(t *testing.T) {
	broken := newMockDirectory()
	broken.err = errors.New("connection refused")
	var ops []string
	dir := NewFallbackDirectory(broken, NewSampleDirectory(), zerolog.Nop(), func(op string, _ error) { ops = append(ops, op) })
	ctx := context.Background()

	doctors, err := dir.ListDoctors(ctx)
	if err != nil || len(doctors) != 3 {
		t.Fatalf("expected sample roster, got %d (%v)", len(doctors), err)
	}
	if _, err := dir.ListPatients(ctx); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := dir.CreatePatient(ctx, validPatient()); !errors.Is(err, broken.err) {
		t.Errorf("expected create error to propagate, got %v", err)
	}
	if len(ops) != 2 {
		t.Errorf("expected two fallbacks, got %v", ops)
	}
}
