package session

import (
	"errors"
	"strings"
	"unicode"
)

// CheckPasswordStrength mirrors the server's signup rules so the form can
// report everything wrong in one round-trip-free message. The server stays
// authoritative; this is a courtesy pre-check. All violated rules are joined
// with "; ", matching how server-side field errors are flattened.
func CheckPasswordStrength(password string) error {
	var msgs []string
	if len(password) < 6 {
		msgs = append(msgs, "password must be at least 6 characters long")
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(`!@#$%^&*(),.?":{}|<>`, r):
			special = true
		}
	}
	if !upper {
		msgs = append(msgs, "password must contain at least one uppercase letter")
	}
	if !lower {
		msgs = append(msgs, "password must contain at least one lowercase letter")
	}
	if !digit {
		msgs = append(msgs, "password must contain at least one number")
	}
	if !special {
		msgs = append(msgs, "password must contain at least one special character")
	}
	if len(msgs) > 0 {
		return errors.New(strings.Join(msgs, "; "))
	}
	return nil
}
