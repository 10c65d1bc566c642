package user

import (
	"errors"
	"strings"
)

// ErrMalformedEmail is returned when an address has no local or domain part.
var ErrMalformedEmail = errors.New("malformed email address")

// NormalizeEmail canonicalizes an email address for duplicate comparison.
// Dots are removed from the local part first, then everything from the first
// '+' of the dot-stripped local part is dropped.
func NormalizeEmail(email string) (string, error) {
	parts := make([]string, 0, 2)
	for _, p := range strings.Split(email, "@") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return "", ErrMalformedEmail
	}

	local, domain := parts[0], parts[1]

	local = strings.ReplaceAll(local, ".", "")
	if i := strings.Index(local, "+"); i >= 0 {
		local = local[:i]
	}
	if local == "" {
		return "", ErrMalformedEmail
	}

	return local + "@" + domain, nil
}
