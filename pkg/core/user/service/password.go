package service

import (
	"unicode"
	"unicode/utf8"

	apperr "startup-directory/pkg/common/errors"
)

const minPasswordLength = 6

func validateSignup(username, password string) []apperr.Violation {
	var out []apperr.Violation
	switch {
	case username == "":
		out = append(out, apperr.Violation{Field: "username", Message: "Username is required"})
	case utf8.RuneCountInString(username) < minUsernameLength:
		out = append(out, apperr.Violation{Field: "username", Message: "Username must be at least 2 characters long"})
	}
	if msg := passwordStrength(password); msg != "" {
		out = append(out, apperr.Violation{Field: "password", Message: msg})
	}
	return out
}

// passwordStrength returns "" for an acceptable password, else the reason.
func passwordStrength(password string) string {
	if password == "" {
		return "Password is required"
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return "Password must be at least 6 characters long"
	}

	var hasLower, hasUpper, hasNumber, hasSymbol bool
	for _, c := range password {
		switch {
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsDigit(c):
			hasNumber = true
		case unicode.IsSymbol(c) || unicode.IsPunct(c):
			hasSymbol = true
		}
	}

	if !(hasLower && hasUpper && hasNumber && hasSymbol) {
		return "Password must include uppercase, lowercase, number, and special character"
	}
	return ""
}
