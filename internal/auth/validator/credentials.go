package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"eventy/pkg/logger"
)

var (
	hasLetterRegex = regexp.MustCompile(`[A-Za-z]`)
	hasDigitRegex  = regexp.MustCompile(`\d`)
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,password_strength"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CredentialsValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewCredentialsValidator(log *logger.Logger) *CredentialsValidator {
	v := validator.New()

	if err := v.RegisterValidation("password_strength", validatePasswordStrength); err != nil {
		log.Fatal("Failed to register 'password_strength' validator", "error", err)
	}

	return &CredentialsValidator{
		validate: v,
		logger:   log,
	}
}

// Password must contain at least one letter and one digit.
func validatePasswordStrength(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	return hasLetterRegex.MatchString(password) && hasDigitRegex.MatchString(password)
}

func (v *CredentialsValidator) ValidateRegister(req *RegisterRequest) error {
	return v.translate(v.validate.Struct(req))
}

func (v *CredentialsValidator) ValidateLogin(req *LoginRequest) error {
	return v.translate(v.validate.Struct(req))
}

func (v *CredentialsValidator) translate(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	var out ValidationErrors
	for _, fieldErr := range validationErrs {
		message := fieldErr.Error()

		switch fieldErr.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", fieldErr.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters long", fieldErr.Field(), fieldErr.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters long", fieldErr.Field(), fieldErr.Param())
		case "email":
			message = "Please enter a valid email"
		case "password_strength":
			message = "Password must contain at least one letter and one number"
		}

		out = append(out, ValidationError{
			Field:   fieldErr.Field(),
			Message: message,
		})
	}

	return out
}
