package utils

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// NormalizeEmail trims surrounding whitespace and lowercases the address.
// Emails are stored and compared in this form only.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GravatarURL returns the gravatar avatar URL for an email address. The
// address is normalized before hashing, as gravatar requires.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(NormalizeEmail(email)))
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:])
}
