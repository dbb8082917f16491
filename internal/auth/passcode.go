package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Passcodes are the shared-device login credential for technicians.

// HashPasscode bcrypt-hashes a passcode for storage.
func HashPasscode(passcode string) (string, error) {
	if len(passcode) < 8 {
		return "", errors.New("passcode must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasscode verifies a passcode against its stored hash.
func CheckPasscode(hash, passcode string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(passcode)) == nil
}
