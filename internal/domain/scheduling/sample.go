package scheduling

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// SampleSource is an in-memory AppointmentSource seeded with a fixed
// appointment set. It backs demo mode and tests. Because it owns its
// records it rejects a second booking of the same doctor, date and time.
type SampleSource struct {
	mu       sync.RWMutex
	nextID   int
	appts    map[int]*Appointment
	bookings map[bookingKey]int // (doctor, date, time) -> appointment ID
	patients map[int]Contact
	doctors  map[int]string
}

// Contact is the patient display data joined into appointments.
type Contact struct {
	Name  string
	Phone string
}

type bookingKey struct {
	doctorID int
	date     string
	time     string
}

// SampleAppointments returns the fixed demo appointment set.
func SampleAppointments() []Appointment {
	return []Appointment{
		{ID: 1, PatientID: 1, DoctorID: 1, AppointmentDate: "2025-12-05", AppointmentTime: "10:00", Reason: "Routine antenatal checkup", Status: StatusScheduled, PatientName: "Ramesh Kumar", Phone: "9876543210", DoctorName: "Dr. Anjali Mehta"},
		{ID: 2, PatientID: 2, DoctorID: 2, AppointmentDate: "2025-12-06", AppointmentTime: "11:30", Reason: "Follow-up consultation", Status: StatusScheduled, PatientName: "Priya Sharma", Phone: "9123456780", DoctorName: "Dr. Vikram Rao"},
		{ID: 3, PatientID: 3, DoctorID: 1, AppointmentDate: "2025-12-05", AppointmentTime: "14:15", Reason: "Blood pressure review", Status: StatusCompleted, PatientName: "Sunita Patel", Phone: "9988776655", DoctorName: "Dr. Anjali Mehta"},
		{ID: 4, PatientID: 4, DoctorID: 3, AppointmentDate: "2025-12-08", AppointmentTime: "09:45", Reason: "Diabetes management", Status: StatusNoShow, PatientName: "Arjun Singh", Phone: "9012345678", DoctorName: "Dr. Farah Khan"},
	}
}

// NewSampleSource creates a source holding a copy of SampleAppointments.
func NewSampleSource() *SampleSource {
	return NewSampleSourceWith(SampleAppointments())
}

// NewSampleSourceWith creates a source seeded with items. Patient and doctor
// display names are learned from the seed.
func NewSampleSourceWith(items []Appointment) *SampleSource {
	s := &SampleSource{
		appts:    make(map[int]*Appointment),
		bookings: make(map[bookingKey]int),
		patients: make(map[int]Contact),
		doctors:  make(map[int]string),
	}
	for _, a := range items {
		a := a
		s.appts[a.ID] = &a
		s.bookings[keyOf(a.DoctorID, a.AppointmentDate, a.AppointmentTime)] = a.ID
		if a.PatientName != "" {
			s.patients[a.PatientID] = Contact{Name: a.PatientName, Phone: a.Phone}
		}
		if a.DoctorName != "" {
			s.doctors[a.DoctorID] = a.DoctorName
		}
		if a.ID > s.nextID {
			s.nextID = a.ID
		}
	}
	return s
}

// AddPatient registers display data for a patient id.
func (s *SampleSource) AddPatient(id int, c Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patients[id] = c
}

func keyOf(doctorID int, date, t string) bookingKey {
	return bookingKey{doctorID: doctorID, date: date, time: t}
}

func (s *SampleSource) sorted(c Criteria) []Appointment {
	all := make([]Appointment, 0, len(s.appts))
	for _, a := range s.appts {
		all = append(all, *a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return Filter(all, c)
}

func (s *SampleSource) ListAppointments(_ context.Context) ([]Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(Criteria{}), nil
}

func (s *SampleSource) SearchAppointments(_ context.Context, c Criteria) ([]Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(c), nil
}

func (s *SampleSource) GetAppointment(_ context.Context, id int) (*Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.appts[id]
	if !ok {
		return nil, fmt.Errorf("appointment %d: %w", id, ErrNotFound)
	}
	cp := *a
	return &cp, nil
}

func (s *SampleSource) CreateAppointment(_ context.Context, f AppointmentForm) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := keyOf(f.DoctorID, f.AppointmentDate, f.AppointmentTime)
	if _, taken := s.bookings[key]; taken {
		return nil, ErrSlotTaken
	}

	s.nextID++
	a := &Appointment{
		ID:              s.nextID,
		PatientID:       f.PatientID,
		DoctorID:        f.DoctorID,
		AppointmentDate: f.AppointmentDate,
		AppointmentTime: f.AppointmentTime,
		Reason:          f.Reason,
		Status:          f.Status,
		DoctorName:      s.doctors[f.DoctorID],
	}
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	if p, ok := s.patients[f.PatientID]; ok {
		a.PatientName = p.Name
		a.Phone = p.Phone
	}
	s.appts[a.ID] = a
	s.bookings[key] = a.ID
	cp := *a
	return &cp, nil
}

func (s *SampleSource) UpdateAppointment(_ context.Context, id int, p UpdatePayload) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.appts[id]
	if !ok {
		return nil, fmt.Errorf("appointment %d: %w", id, ErrNotFound)
	}
	oldKey := keyOf(a.DoctorID, a.AppointmentDate, a.AppointmentTime)
	newKey := keyOf(a.DoctorID, p.AppointmentDate, p.AppointmentTime)
	if owner, taken := s.bookings[newKey]; taken && owner != id {
		return nil, ErrSlotTaken
	}

	a.AppointmentDate = p.AppointmentDate
	a.AppointmentTime = p.AppointmentTime
	a.Reason = p.Reason
	if p.Status != "" {
		a.Status = p.Status
	}
	delete(s.bookings, oldKey)
	s.bookings[newKey] = id
	cp := *a
	return &cp, nil
}

func (s *SampleSource) DeleteAppointment(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.appts[id]
	if !ok {
		return fmt.Errorf("appointment %d: %w", id, ErrNotFound)
	}
	delete(s.bookings, keyOf(a.DoctorID, a.AppointmentDate, a.AppointmentTime))
	delete(s.appts, id)
	return nil
}
