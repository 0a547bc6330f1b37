package scheduling

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format of appointment dates.
const DateLayout = "2006-01-02"

// ValidationErrors maps a JSON field name to the message shown next to it.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("calendar_date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("appointment_status", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).Valid()
	})
	return v
}

var fieldMessages = map[string]string{
	"patient_id":       "please select a patient",
	"doctor_id":        "please select a doctor",
	"appointment_time": "please select a time slot",
}

func messageFor(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		if msg, ok := fieldMessages[field]; ok {
			return msg
		}
		return field + " is required"
	case "min":
		if msg, ok := fieldMessages[field]; ok && fe.Kind() == reflect.Int {
			return msg
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "calendar_date":
		return "must be a valid date (YYYY-MM-DD)"
	case "appointment_status":
		return "must be one of Scheduled, Completed, Cancelled, No Show"
	default:
		return "is invalid"
	}
}

func collect(s interface{}) ValidationErrors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fes validator.ValidationErrors
	if !errors.As(err, &fes) {
		return ValidationErrors{"_": err.Error()}
	}
	out := ValidationErrors{}
	for _, fe := range fes {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = messageFor(fe)
	}
	return out
}

// ValidateAppointment checks a create payload. It returns nil when every
// rule passes. The date lower bound and slot membership are not checked here;
// see CheckBookable.
func ValidateAppointment(f AppointmentForm) ValidationErrors {
	return collect(f)
}

// ValidateUpdate checks the fields supplied in an edit. Omitted fields keep
// their stored values and are not checked.
func ValidateUpdate(u AppointmentUpdate) ValidationErrors {
	return collect(u)
}

// ValidatePayload checks a full update body.
func ValidatePayload(p UpdatePayload) ValidationErrors {
	return collect(p)
}

// CheckBookable applies the input-widget constraints: the date may not be
// before today and the time must come from the slot catalogue.
func CheckBookable(date, slot string, today time.Time) ValidationErrors {
	out := ValidationErrors{}
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		out["appointment_date"] = "must be a valid date (YYYY-MM-DD)"
	} else {
		y, m, dd := today.Date()
		if d.Before(time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)) {
			out["appointment_date"] = "must be today or later"
		}
	}
	if !IsSlot(slot) {
		out["appointment_time"] = "must be a slot between 09:00 and 18:00 in 5-minute steps"
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// CheckBookableUpdate applies CheckBookable to the date and time supplied in
// u. Omitted fields are not checked.
func CheckBookableUpdate(u AppointmentUpdate, today time.Time) ValidationErrors {
	date, slot := today.Format(DateLayout), "09:00"
	if u.AppointmentDate != nil {
		date = *u.AppointmentDate
	}
	if u.AppointmentTime != nil {
		slot = *u.AppointmentTime
	}
	return CheckBookable(date, slot, today)
}
