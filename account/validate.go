package account

import (
	"fmt"
	"net/mail"
	"strings"
)

const phoneLength = 10

func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return NewMissingFieldError("email")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil {
		return NewInvalidEmailError(fmt.Sprintf("%q is not a valid email address", email), err)
	}
	// Reject addresses with display names, comments, etc.
	if addr.Address != email {
		return NewInvalidEmailError(fmt.Sprintf("%q is not a plain email address", email), nil)
	}

	return nil
}

func ValidatePhone(phone string) error {
	if phone == "" {
		return NewMissingFieldError("phone")
	}

	if len(phone) != phoneLength {
		return NewInvalidPhoneError(fmt.Sprintf("Phone must be exactly %d digits", phoneLength))
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return NewInvalidPhoneError("Phone must contain only digits")
		}
	}

	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
