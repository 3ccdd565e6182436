package models

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrUnknownField is returned when a field name is not one of the four form fields
var ErrUnknownField = errors.New("unknown form field")

// Field names one input of the waitlist form. Its value is the JSON/form key.
type Field string

// The four waitlist form fields
const (
	FieldFirstName Field = "firstName"
	FieldLastName  Field = "lastName"
	FieldEmail     Field = "email"
	FieldInterest  Field = "interest"
)

// Fields lists the form fields in display order
var Fields = []Field{FieldFirstName, FieldLastName, FieldEmail, FieldInterest}

// ParseField maps a wire or form name onto a Field
func ParseField(name string) (Field, error) {
	for _, f := range Fields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Label returns the human readable label shown next to the input
func (f Field) Label() string {
	switch f {
	case FieldFirstName:
		return "First Name"
	case FieldLastName:
		return "Last Name"
	case FieldEmail:
		return "Email Address"
	case FieldInterest:
		return "I'm interested as a:"
	default:
		return string(f)
	}
}

// Interest is the category a person signs up under
type Interest string

// Interest values accepted by the registration endpoint
const (
	InterestBusiness   Interest = "business"
	InterestIndividual Interest = "individual"
	InterestFarmer     Interest = "farmer"
	InterestPartner    Interest = "partner"
)

// InterestPlaceholder is the label of the empty select option
const InterestPlaceholder = "Please select"

// Interests lists the selectable categories in display order
var Interests = []Interest{InterestBusiness, InterestIndividual, InterestFarmer, InterestPartner}

// Label returns the option text for the interest select
func (i Interest) Label() string {
	switch i {
	case InterestBusiness:
		return "Business"
	case InterestIndividual:
		return "Individual"
	case InterestFarmer:
		return "Farmer"
	case InterestPartner:
		return "Potential Partner"
	case "":
		return InterestPlaceholder
	default:
		return string(i)
	}
}

// RegistrationRequest represents the waitlist signup payload.
// The binding tags mirror the constraints the browser enforces on the form controls.
type RegistrationRequest struct {
	FirstName string `json:"firstName" form:"firstName" binding:"required"`
	LastName  string `json:"lastName" form:"lastName" binding:"required"`
	Email     string `json:"email" form:"email" binding:"required,email"`
	Interest  string `json:"interest" form:"interest" binding:"required,oneof=business individual farmer partner"`
}

// RegistrationResponse is the body returned by the registration endpoint
type RegistrationResponse struct {
	Message string `json:"message,omitempty"`
}

// Get returns the value of a single field
func (r RegistrationRequest) Get(f Field) (string, error) {
	switch f {
	case FieldFirstName:
		return r.FirstName, nil
	case FieldLastName:
		return r.LastName, nil
	case FieldEmail:
		return r.Email, nil
	case FieldInterest:
		return r.Interest, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, string(f))
}

// Set assigns a single field
func (r *RegistrationRequest) Set(f Field, value string) error {
	switch f {
	case FieldFirstName:
		r.FirstName = value
	case FieldLastName:
		r.LastName = value
	case FieldEmail:
		r.Email = value
	case FieldInterest:
		r.Interest = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, string(f))
	}
	return nil
}

// Missing returns the empty fields in display order
func (r RegistrationRequest) Missing() []Field {
	var missing []Field
	for _, f := range Fields {
		if v, _ := r.Get(f); v == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// IsEmpty reports whether every field is empty
func (r RegistrationRequest) IsEmpty() bool {
	return len(r.Missing()) == len(Fields)
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.SetTagName("binding")
	})
	return validate
}

// Validate applies the form constraints: every field required, a well-formed
// email and a known interest.
func (r RegistrationRequest) Validate() error {
	err := structValidator().Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, fmt.Sprintf("%s failed %s", jsonName(fe.StructField()), fe.Tag()))
	}
	return fmt.Errorf("invalid registration: %s", strings.Join(problems, ", "))
}

func jsonName(structField string) string {
	switch structField {
	case "FirstName":
		return string(FieldFirstName)
	case "LastName":
		return string(FieldLastName)
	case "Email":
		return string(FieldEmail)
	case "Interest":
		return string(FieldInterest)
	}
	return structField
}
