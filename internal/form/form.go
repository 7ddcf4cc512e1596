// Package form implements the multi-step signup demo: a struct validated
// with go-playground/validator tags and a wizard that walks it one step at
// a time.
package form

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Signup is the value the wizard collects.
type Signup struct {
	Name     string `validate:"required,min=2,max=40"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=72"`
	Confirm  string `validate:"required,eqfield=Password"`
	Plan     string `validate:"required,oneof=free pro team"`
}

// Step groups the fields validated together.
type Step struct {
	Key    string
	Fields []string
}

var steps = []Step{
	{Key: "account", Fields: []string{"Name", "Email"}},
	{Key: "security", Fields: []string{"Password", "Confirm"}},
	{Key: "plan", Fields: []string{"Plan"}},
}

// ErrUnknownField is returned by Set and Get for names Signup lacks.
var ErrUnknownField = errors.New("unknown form field")

// FieldErrors maps a field name to a human-readable message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + " " + fe[f]
	}
	return strings.Join(parts, "; ")
}

// Wizard walks a Signup through its steps.
type Wizard struct {
	validate *validator.Validate
	value    Signup
	step     int
	errs     FieldErrors
}

// NewWizard returns a wizard positioned on the first step. Plan starts as
// "free".
func NewWizard() *Wizard {
	return &Wizard{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		value:    Signup{Plan: "free"},
	}
}

// Steps returns the ordered steps.
func (w *Wizard) Steps() []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}

// Step returns the zero-based index of the current step.
func (w *Wizard) Step() int { return w.step }

// Current returns the current step.
func (w *Wizard) Current() Step { return steps[w.step] }

// Last reports whether the current step is the final one.
func (w *Wizard) Last() bool { return w.step == len(steps)-1 }

// Errors returns the errors from the last Next or Submit.
func (w *Wizard) Errors() FieldErrors { return w.errs }

// Value returns a copy of the collected data.
func (w *Wizard) Value() Signup { return w.value }

// Set stores value under field. Surrounding whitespace is trimmed except for
// password fields.
func (w *Wizard) Set(field, value string) error {
	ptr, err := w.field(field)
	if err != nil {
		return err
	}
	if field != "Password" && field != "Confirm" {
		value = strings.TrimSpace(value)
	}
	*ptr = value
	delete(w.errs, field)
	return nil
}

// Get returns the stored value of field.
func (w *Wizard) Get(field string) (string, error) {
	ptr, err := w.field(field)
	if err != nil {
		return "", err
	}
	return *ptr, nil
}

func (w *Wizard) field(name string) (*string, error) {
	switch name {
	case "Name":
		return &w.value.Name, nil
	case "Email":
		return &w.value.Email, nil
	case "Password":
		return &w.value.Password, nil
	case "Confirm":
		return &w.value.Confirm, nil
	case "Plan":
		return &w.value.Plan, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
}

// Next validates the current step's fields and advances when they pass.
// On the last step a passing Next leaves the step unchanged.
func (w *Wizard) Next() FieldErrors {
	errs := w.check(w.validate.StructPartial(w.value, steps[w.step].Fields...))
	w.errs = errs
	if errs != nil {
		return errs
	}
	if !w.Last() {
		w.step++
	}
	return nil
}

// Back moves to the previous step, keeping entered values.
func (w *Wizard) Back() {
	if w.step > 0 {
		w.step--
	}
	w.errs = nil
}

// Submit validates every field. On failure the wizard jumps to the first
// step holding an error.
func (w *Wizard) Submit() (Signup, FieldErrors) {
	errs := w.check(w.validate.Struct(w.value))
	w.errs = errs
	if errs != nil {
		w.step = firstStepWith(errs)
		return Signup{}, errs
	}
	return w.value, nil
}

// Reset clears the wizard back to its initial state.
func (w *Wizard) Reset() {
	w.value = Signup{Plan: "free"}
	w.step = 0
	w.errs = nil
}

func (w *Wizard) check(err error) FieldErrors {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"form": err.Error()}
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = describe(fe)
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "eqfield":
		return "must match " + strings.ToLower(fe.Param())
	case "oneof":
		return "must be one of " + strings.Join(strings.Fields(fe.Param()), ", ")
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}

func firstStepWith(errs FieldErrors) int {
	for i, s := range steps {
		for _, f := range s.Fields {
			if _, ok := errs[f]; ok {
				return i
			}
		}
	}
	return 0
}
