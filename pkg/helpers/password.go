package helpers

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plaintext password with bcrypt (randomly salted,
// adaptive cost). The plaintext is never logged anywhere in the service.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether plain matches the stored bcrypt hash.
// Any internal failure (malformed hash, cost mismatch) reads as a plain
// mismatch: verification never crashes the caller and never distinguishes
// "wrong password" from "corrupt hash".
func CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
