package identity

import "strings"

// Gender values accepted on a patient record.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// ANC flag values.
const (
	ANCYes = "Yes"
	ANCNo  = "No"
)

// BloodGroups lists the eight ABO/Rh groups.
var BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// Patient is a patient record as returned by the store.
type Patient struct {
	ID                   int     `json:"id"`
	Name                 string  `json:"name"`
	Age                  string  `json:"age"`
	Gender               string  `json:"gender"`
	DateOfBirth          string  `json:"date_of_birth"`
	BloodGroup           string  `json:"blood_group"`
	Mobile               string  `json:"mobile"`
	Address              string  `json:"address"`
	Allergies            string  `json:"allergies,omitempty"`
	MedicalHistory       string  `json:"medical_history,omitempty"`
	IsANC                string  `json:"is_anc"`
	ExpectedDeliveryDate *string `json:"expected_delivery_date"`
}

// PatientForm is the create and update body. The id is assigned by the store.
type PatientForm struct {
	Name                 string  `json:"name" validate:"min=2,max=100"`
	Age                  string  `json:"age" validate:"required,number"`
	Gender               string  `json:"gender" validate:"required,oneof=Male Female Other"`
	DateOfBirth          string  `json:"date_of_birth" validate:"required,calendar_date"`
	BloodGroup           string  `json:"blood_group" validate:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Mobile               string  `json:"mobile" validate:"mobile"`
	Address              string  `json:"address" validate:"min=5,max=255"`
	Allergies            string  `json:"allergies,omitempty" validate:"max=500"`
	MedicalHistory       string  `json:"medical_history,omitempty" validate:"max=1000"`
	IsANC                string  `json:"is_anc" validate:"required,oneof=Yes No"`
	ExpectedDeliveryDate *string `json:"expected_delivery_date" validate:"omitnil,calendar_date"`
}

// Normalize returns f with the expected delivery date cleared when the
// patient is not under antenatal care. An empty date is also cleared.
func (f PatientForm) Normalize() PatientForm {
	if f.IsANC != ANCYes || (f.ExpectedDeliveryDate != nil && *f.ExpectedDeliveryDate == "") {
		f.ExpectedDeliveryDate = nil
	}
	return f
}

// Form returns the editable fields of p.
func (p Patient) Form() PatientForm {
	return PatientForm{
		Name:                 p.Name,
		Age:                  p.Age,
		Gender:               p.Gender,
		DateOfBirth:          p.DateOfBirth,
		BloodGroup:           p.BloodGroup,
		Mobile:               p.Mobile,
		Address:              p.Address,
		Allergies:            p.Allergies,
		MedicalHistory:       p.MedicalHistory,
		IsANC:                p.IsANC,
		ExpectedDeliveryDate: p.ExpectedDeliveryDate,
	}
}

// Matches reports whether q is a case-insensitive substring of the name or a
// substring of the mobile number. An empty q matches everything.
func (p Patient) Matches(q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) ||
		strings.Contains(p.Mobile, q)
}

// Doctor is an entry of the read-only roster.
type Doctor struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
