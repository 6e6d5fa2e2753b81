package service

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tradepulse/dashboard/internal/core/domain"
	"github.com/tradepulse/dashboard/internal/core/ports"
)

const minPasswordLength = 6

// formValidator runs the checks a browser form would run before submitting.
type formValidator struct {
	v     *validator.Validate
	roles map[string]struct{}
}

func newFormValidator(signupRoles []string) *formValidator {
	roles := make(map[string]struct{}, len(signupRoles))
	for _, r := range signupRoles {
		roles[strings.TrimSpace(r)] = struct{}{}
	}
	return &formValidator{v: validator.New(), roles: roles}
}

// signup checks the form in the order the user sees the messages: password
// confirmation, password length, role, then the remaining fields.
func (fv *formValidator) signup(form ports.SignupForm) error {
	if form.Password != form.ConfirmPassword {
		return &domain.ValidationError{Field: "confirm_password", Err: domain.ErrPasswordMismatch}
	}
	if len(form.Password) < minPasswordLength {
		return &domain.ValidationError{Field: "password", Err: domain.ErrPasswordTooShort}
	}
	if form.Role != "" {
		if _, ok := fv.roles[form.Role]; !ok {
			return domain.NewValidationError("role", fmt.Sprintf("role must be one of: %s", fv.roleList()))
		}
	}
	return fv.structErr(form)
}

func (fv *formValidator) login(form ports.LoginForm) error {
	return fv.structErr(form)
}

func (fv *formValidator) structErr(form any) error {
	err := fv.v.Struct(form)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		return domain.NewValidationError(strings.ToLower(fe.Field()), fieldError(fe))
	}
	return err
}

func (fv *formValidator) roleList() string {
	return strings.Join(slices.Sorted(maps.Keys(fv.roles)), ", ")
}

// fieldError converts a single validator.FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
