package service

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes with bcrypt: salted per hash and deliberately slow.
// Raw passwords are never stored or logged anywhere in this package.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored hash. A
// malformed hash is a mismatch, not an error; the caller only ever needs
// yes or no.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
