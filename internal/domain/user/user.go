// Package user holds account identity and password rules.
package user

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/kailas-cloud/caskbook/internal/domain"
)

// MinPasswordLen is the minimum password length.
const MinPasswordLen = 8

// User is a registered account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NormalizeEmail validates and lowercases an email address.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(email) > 255 {
		return "", domain.NewFieldError("email", "must be 1-255 characters")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.NewFieldError("email", "is not a valid address")
	}
	return email, nil
}

// ValidatePassword enforces length plus at least one letter and one digit.
func ValidatePassword(pw string) error {
	if len(pw) < MinPasswordLen {
		return domain.NewFieldError("password", fmt.Sprintf("must be at least %d characters", MinPasswordLen))
	}
	var letter, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !letter {
		return domain.NewFieldError("password", "must contain at least one letter")
	}
	if !digit {
		return domain.NewFieldError("password", "must contain at least one digit")
	}
	return nil
}
