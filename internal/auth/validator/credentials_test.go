package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventy/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
}

func TestValidateRegister(t *testing.T) {
	v := NewCredentialsValidator(testLogger())

	cases := []struct {
		name        string
		req         RegisterRequest
		wantField   string
		wantMessage string
	}{
		{
			name: "valid request",
			req:  RegisterRequest{Name: "Dana", Email: "dana@example.com", Password: "pass123"},
		},
		{
			name:        "name too short",
			req:         RegisterRequest{Name: "D", Email: "dana@example.com", Password: "pass123"},
			wantField:   "Name",
			wantMessage: "Name must be at least 2 characters long",
		},
		{
			name:        "invalid email",
			req:         RegisterRequest{Name: "Dana", Email: "not-an-email", Password: "pass123"},
			wantField:   "Email",
			wantMessage: "Please enter a valid email",
		},
		{
			name:        "password too short",
			req:         RegisterRequest{Name: "Dana", Email: "dana@example.com", Password: "p1"},
			wantField:   "Password",
			wantMessage: "Password must be at least 6 characters long",
		},
		{
			name:        "password missing digit",
			req:         RegisterRequest{Name: "Dana", Email: "dana@example.com", Password: "password"},
			wantField:   "Password",
			wantMessage: "Password must contain at least one letter and one number",
		},
		{
			name:        "password missing letter",
			req:         RegisterRequest{Name: "Dana", Email: "dana@example.com", Password: "12345678"},
			wantField:   "Password",
			wantMessage: "Password must contain at least one letter and one number",
		},
		{
			name:        "missing name",
			req:         RegisterRequest{Email: "dana@example.com", Password: "pass123"},
			wantField:   "Name",
			wantMessage: "Name is required",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.ValidateRegister(&tc.req)

			if tc.wantField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var validationErrs ValidationErrors
			require.True(t, errors.As(err, &validationErrs))

			found := false
			for _, fieldErr := range validationErrs {
				if fieldErr.Field == tc.wantField && fieldErr.Message == tc.wantMessage {
					found = true
				}
			}
			assert.True(t, found, "expected %s: %q in %v", tc.wantField, tc.wantMessage, validationErrs)
		})
	}
}

func TestValidateLogin(t *testing.T) {
	v := NewCredentialsValidator(testLogger())

	assert.NoError(t, v.ValidateLogin(&LoginRequest{Email: "dana@example.com", Password: "x"}))
	assert.Error(t, v.ValidateLogin(&LoginRequest{Email: "nope", Password: "x"}))
	assert.Error(t, v.ValidateLogin(&LoginRequest{Email: "dana@example.com"}))
}
