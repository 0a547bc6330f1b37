package scheduling

import "strings"

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusScheduled Status = "Scheduled"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
	StatusNoShow    Status = "No Show"
)

var validAppointmentStatuses = map[Status]bool{
	StatusScheduled: true,
	StatusCompleted: true,
	StatusCancelled: true,
	StatusNoShow:    true,
}

// Statuses returns the status enum in display order.
func Statuses() []Status {
	return []Status{StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow}
}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool { return validAppointmentStatuses[s] }

// Final reports whether s is conventionally final. The default policy still
// permits edits; see WithStrictStatus.
func (s Status) Final() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Appointment is a scheduled encounter as returned by the store.
type Appointment struct {
	ID              int    `json:"id"`
	PatientID       int    `json:"patient_id"`
	DoctorID        int    `json:"doctor_id"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	Reason          string `json:"reason"`
	Status          Status `json:"status"`

	// Display fields joined in by the store.
	PatientName string `json:"patient_name,omitempty"`
	Phone       string `json:"phone,omitempty"`
	DoctorName  string `json:"doctor_name,omitempty"`
}

// AppointmentForm is the create payload.
type AppointmentForm struct {
	PatientID       int    `json:"patient_id" validate:"min=1"`
	DoctorID        int    `json:"doctor_id" validate:"min=1"`
	AppointmentDate string `json:"appointment_date" validate:"required,calendar_date"`
	AppointmentTime string `json:"appointment_time" validate:"required"`
	Reason          string `json:"reason" validate:"min=3,max=500"`
	Status          Status `json:"status,omitempty" validate:"omitempty,appointment_status"`
}

// AppointmentUpdate is the mutable subset sent on update. Nil fields keep
// the stored value.
type AppointmentUpdate struct {
	AppointmentDate *string `json:"appointment_date,omitempty" validate:"omitnil,required,calendar_date"`
	AppointmentTime *string `json:"appointment_time,omitempty" validate:"omitnil,required"`
	Reason          *string `json:"reason,omitempty" validate:"omitnil,min=3,max=500"`
	Status          *Status `json:"status,omitempty" validate:"omitnil,appointment_status"`
}

// IsZero reports whether the update changes nothing.
func (u AppointmentUpdate) IsZero() bool {
	return u.AppointmentDate == nil && u.AppointmentTime == nil && u.Reason == nil && u.Status == nil
}

// UpdatePayload is the body transmitted on PUT. patient_id and doctor_id are
// never part of it.
type UpdatePayload struct {
	AppointmentDate string `json:"appointment_date" validate:"required,calendar_date"`
	AppointmentTime string `json:"appointment_time" validate:"required"`
	Reason          string `json:"reason" validate:"min=3,max=500"`
	Status          Status `json:"status,omitempty" validate:"omitempty,appointment_status"`
}

// Apply merges u over the stored appointment a and returns the full payload.
func (u AppointmentUpdate) Apply(a Appointment) UpdatePayload {
	p := UpdatePayload{
		AppointmentDate: a.AppointmentDate,
		AppointmentTime: a.AppointmentTime,
		Reason:          a.Reason,
		Status:          a.Status,
	}
	if u.AppointmentDate != nil {
		p.AppointmentDate = *u.AppointmentDate
	}
	if u.AppointmentTime != nil {
		p.AppointmentTime = *u.AppointmentTime
	}
	if u.Reason != nil {
		p.Reason = *u.Reason
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
	return p
}

// Criteria narrows an appointment collection. Zero fields are ignored.
type Criteria struct {
	Name  string
	Phone string
	Date  string
}

// IsZero reports whether no filter is set.
func (c Criteria) IsZero() bool {
	return strings.TrimSpace(c.Name) == "" && strings.TrimSpace(c.Phone) == "" && strings.TrimSpace(c.Date) == ""
}

// Matches applies the search rules: case-insensitive name substring, phone
// substring, exact date.
func (c Criteria) Matches(a Appointment) bool {
	if name := strings.TrimSpace(c.Name); name != "" {
		if !strings.Contains(strings.ToLower(a.PatientName), strings.ToLower(name)) {
			return false
		}
	}
	if phone := strings.TrimSpace(c.Phone); phone != "" {
		if !strings.Contains(a.Phone, phone) {
			return false
		}
	}
	if date := strings.TrimSpace(c.Date); date != "" && a.AppointmentDate != date {
		return false
	}
	return true
}

// Filter returns the appointments matching c, preserving order.
func Filter(items []Appointment, c Criteria) []Appointment {
	out := make([]Appointment, 0, len(items))
	for _, a := range items {
		if c.Matches(a) {
			out = append(out, a)
		}
	}
	return out
}
