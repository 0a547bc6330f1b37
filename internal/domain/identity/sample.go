package identity

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// SampleDirectory is an in-memory PatientSource and DoctorSource seeded with
// the demo roster.
type SampleDirectory struct {
	mu       sync.RWMutex
	nextID   int
	patients map[int]*Patient
	doctors  []Doctor
}

func strPtr(s string) *string { return &s }

// SamplePatients returns the fixed demo patients. Their ids match the
// patients referenced by the sample appointments.
func SamplePatients() []Patient {
	return []Patient{
		{ID: 1, Name: "Ramesh Kumar", Age: "45", Gender: GenderMale, DateOfBirth: "1980-03-14", BloodGroup: "B+", Mobile: "9876543210", Address: "12 MG Road, Bengaluru", IsANC: ANCNo},
		{ID: 2, Name: "Priya Sharma", Age: "29", Gender: GenderFemale, DateOfBirth: "1996-07-22", BloodGroup: "O+", Mobile: "9123456780", Address: "44 Park Street, Kolkata", Allergies: "Penicillin", IsANC: ANCYes, ExpectedDeliveryDate: strPtr("2026-02-18")},
		{ID: 3, Name: "Sunita Patel", Age: "52", Gender: GenderFemale, DateOfBirth: "1973-11-02", BloodGroup: "A-", Mobile: "9988776655", Address: "7 Ashram Road, Ahmedabad", MedicalHistory: "Hypertension", IsANC: ANCNo},
		{ID: 4, Name: "Arjun Singh", Age: "38", Gender: GenderMale, DateOfBirth: "1987-01-30", BloodGroup: "AB+", Mobile: "9012345678", Address: "3 Mall Road, Shimla", MedicalHistory: "Type 2 diabetes", IsANC: ANCNo},
	}
}

// SampleDoctors returns the fixed demo roster.
func SampleDoctors() []Doctor {
	return []Doctor{
		{ID: 1, Name: "Dr. Anjali Mehta"},
		{ID: 2, Name: "Dr. Vikram Rao"},
		{ID: 3, Name: "Dr. Farah Khan"},
	}
}

func NewSampleDirectory() *SampleDirectory {
	d := &SampleDirectory{patients: make(map[int]*Patient), doctors: SampleDoctors()}
	for _, p := range SamplePatients() {
		p := p
		d.patients[p.ID] = &p
		if p.ID > d.nextID {
			d.nextID = p.ID
		}
	}
	return d
}

func (d *SampleDirectory) filtered(q string) []Patient {
	out := make([]Patient, 0, len(d.patients))
	for _, p := range d.patients {
		if p.Matches(q) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (d *SampleDirectory) ListPatients(_ context.Context) ([]Patient, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.filtered(""), nil
}

func (d *SampleDirectory) SearchPatients(_ context.Context, q string) ([]Patient, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.filtered(q), nil
}

func (d *SampleDirectory) GetPatient(_ context.Context, id int) (*Patient, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.patients[id]
	if !ok {
		return nil, fmt.Errorf("patient %d: %w", id, ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (d *SampleDirectory) CreatePatient(_ context.Context, f PatientForm) (*Patient, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	p := fromForm(d.nextID, f)
	d.patients[p.ID] = &p
	cp := p
	return &cp, nil
}

func (d *SampleDirectory) UpdatePatient(_ context.Context, id int, f PatientForm) (*Patient, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.patients[id]; !ok {
		return nil, fmt.Errorf("patient %d: %w", id, ErrNotFound)
	}
	p := fromForm(id, f)
	d.patients[id] = &p
	cp := p
	return &cp, nil
}

func (d *SampleDirectory) DeletePatient(_ context.Context, id int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.patients[id]; !ok {
		return fmt.Errorf("patient %d: %w", id, ErrNotFound)
	}
	delete(d.patients, id)
	return nil
}

func (d *SampleDirectory) ListDoctors(_ context.Context) ([]Doctor, error) {
	return append([]Doctor(nil), d.doctors...), nil
}

func fromForm(id int, f PatientForm) Patient {
	return Patient{
		ID:                   id,
		Name:                 f.Name,
		Age:                  f.Age,
		Gender:               f.Gender,
		DateOfBirth:          f.DateOfBirth,
		BloodGroup:           f.BloodGroup,
		Mobile:               f.Mobile,
		Address:              f.Address,
		Allergies:            f.Allergies,
		MedicalHistory:       f.MedicalHistory,
		IsANC:                f.IsANC,
		ExpectedDeliveryDate: f.ExpectedDeliveryDate,
	}
}
