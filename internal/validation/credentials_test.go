package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid", "test_user123", false},
		{"Exactly Min Length", "abc", false},
		{"Exactly Max Length", strings.Repeat("a", 20), false},
		{"Empty", "", true},
		{"Too Short", "tu", true},
		{"Too Long", strings.Repeat("a", 21), true},
		{"Illegal Chars", "user@123", true},
		{"Hyphen Not Allowed", "user-name", true},
		{"Space", "user name", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Valid", "a@x.com", false},
		{"Valid Subdomain", "user@mail.example.org", false},
		{"Empty", "", true},
		{"Missing At", "userexample.com", true},
		{"Missing TLD", "user@example", true},
		{"Contains Space", "us er@example.com", true},
		{"Double At", "user@@example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "Passw0rd1", false},
		{"Exactly Min Length", "Abcdefg1", false},
		{"Empty", "", true},
		{"Too Short", "Abc1", true},
		{"No Upper", "passw0rd1", true},
		{"No Digit", "Passwordx", true},
		{"Digits Only", "12345678", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTitleAndContent(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateTitle("hello"))
	assert.Error(t, ValidateTitle("   "))
	assert.Error(t, ValidateTitle(strings.Repeat("t", 256)))

	assert.NoError(t, ValidateContent("a comment"))
	assert.Error(t, ValidateContent(""))
	assert.Error(t, ValidateContent(strings.Repeat("c", 5001)))
}
