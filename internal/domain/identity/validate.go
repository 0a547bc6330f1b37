package identity

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format of patient dates.
const DateLayout = "2006-01-02"

var mobilePattern = regexp.MustCompile(`^[0-9]{10,15}$`)

// ValidationErrors maps a JSON field name to its message.
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
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	_ = v.RegisterValidation("calendar_date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return mobilePattern.MatchString(fl.Field().String())
	})
	return v
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "number":
		return "must be a number"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "calendar_date":
		return "must be a valid date (YYYY-MM-DD)"
	case "mobile":
		return "must be 10 to 15 digits"
	default:
		return "is invalid"
	}
}

// ValidatePatient checks f as it will be submitted. The date of birth may not
// be after today. f should already be normalized.
func ValidatePatient(f PatientForm, today time.Time) ValidationErrors {
	out := ValidationErrors{}
	if err := validate.Struct(f); err != nil {
		var fes validator.ValidationErrors
		if !errors.As(err, &fes) {
			return ValidationErrors{"_": err.Error()}
		}
		for _, fe := range fes {
			if _, seen := out[fe.Field()]; !seen {
				out[fe.Field()] = messageFor(fe)
			}
		}
	}
	if _, bad := out["date_of_birth"]; !bad {
		dob, _ := time.Parse(DateLayout, f.DateOfBirth)
		y, m, d := today.Date()
		if dob.After(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)) {
			out["date_of_birth"] = "cannot be in the future"
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
