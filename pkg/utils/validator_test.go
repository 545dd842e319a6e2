package utils

import (
	"strings"
	"testing"

	appErrors "artmarket/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Username        string `json:"username" validate:"required,min=3,username"`
	Password        string `json:"password" validate:"required,min=6,max=72,bcryptlen"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Role            string `json:"role" validate:"omitempty,oneof=buyer artist"`
	Page            int    `form:"page" validate:"omitempty,min=1"`
}

func TestValidate_MessagesNameJSONFields(t *testing.T) {
	valid := signupForm{Username: "alice", Password: "pw123456", ConfirmPassword: "pw123456"}

	tests := []struct {
		name    string
		mutate  func(f *signupForm)
		message string
	}{
		{name: "required", mutate: func(f *signupForm) { f.Username = "" }, message: "username is required"},
		{name: "min string", mutate: func(f *signupForm) { f.Password, f.ConfirmPassword = "123", "123" }, message: "password must be at least 6 characters"},
		{name: "multibyte password over bcrypt limit", mutate: func(f *signupForm) {
			f.Password = strings.Repeat("é", 40)
			f.ConfirmPassword = f.Password
		}, message: "password must be at most 72 bytes"},
		{name: "eqfield", mutate: func(f *signupForm) { f.ConfirmPassword = "other123" }, message: "confirmPassword must match password"},
		{name: "oneof", mutate: func(f *signupForm) { f.Role = "admin" }, message: "role must be one of: buyer artist"},
		{name: "custom username", mutate: func(f *signupForm) { f.Username = "Bad Name" }, message: "username may only contain lowercase letters, digits, dots and underscores"},
		{name: "form tag", mutate: func(f *signupForm) { f.Page = -1 }, message: "page must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			tt.mutate(&form)

			err := Validate(&form)
			require.Error(t, err)
			status, code, message, ok := appErrors.Lookup(err)
			require.True(t, ok)
			assert.Equal(t, 400, status)
			assert.Equal(t, "VALIDATION_ERROR", code)
			assert.Equal(t, tt.message, message)
		})
	}

	assert.NoError(t, Validate(&valid))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "alice@example.com", SanitizeIdentifier("  Alice@Example.COM "))
	assert.Equal(t, "alice", SanitizeIdentifier("<b>alice</b>"))
	assert.Equal(t, "O'Brien & Sons", SanitizeString("  O'Brien & Sons\x00 "))
	assert.Equal(t, "line one\nline two", SanitizeText(" line one\nline two\x07 "))
	assert.Nil(t, SanitizeOptional(nil, SanitizeString))

	value := " x "
	assert.Equal(t, "x", *SanitizeOptional(&value, SanitizeString))
}
