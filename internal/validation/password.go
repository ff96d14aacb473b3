package validation

import "regexp"

var specialChars = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>_\-+=\[\]/\\';~]`)

// HasSpecialChar checks if a string contains at least one special character
func HasSpecialChar(s string) bool {
	return specialChars.MatchString(s)
}

// StrongPassword reports whether s fits the bcrypt limit, is long enough and
// holds a special character.
func StrongPassword(s string) bool {
	return len(s) >= MinPasswordLength && len(s) <= MaxPasswordLength && HasSpecialChar(s)
}
