package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid email", "user@example.com", false},
		{"valid with plus", "user+tag@example.co.uk", false},
		{"empty", "", true},
		{"missing at", "userexample.com", true},
		{"missing domain dot", "user@example", true},
		{"spaces", "user name@example.com", true},
		{"too long", strings.Repeat("a", 250) + "@example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidateEmail_FieldAttribution(t *testing.T) {
	err := ValidateEmail("")

	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if verr.Field != "email" {
		t.Errorf("Field = %q, want %q", verr.Field, "email")
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		minLength int
		wantErr   bool
	}{
		{"long enough", "Sup3rSecret1", 8, false},
		{"exactly min length", "12345678", 8, false},
		{"too short", "short", 8, true},
		{"empty", "", 8, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password, tt.minLength)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword(%q, %d) error = %v, wantErr %v", tt.password, tt.minLength, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword_MentionsMinimum(t *testing.T) {
	err := ValidatePassword("short", 10)
	if err == nil {
		t.Fatal("expected error for short password")
	}
	if !strings.Contains(err.Error(), "10") {
		t.Errorf("error %q should mention the configured minimum", err.Error())
	}
}
