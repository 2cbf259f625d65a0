package utils

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPassword(hashed, plain string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	return err == nil
}

// PasswordInEmail reports whether the candidate password appears verbatim
// inside the account email. Such passwords are rejected at registration and
// at password reset.
func PasswordInEmail(email, password string) bool {
	return password != "" && strings.Contains(email, password)
}
