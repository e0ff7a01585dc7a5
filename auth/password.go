package auth

import (
	"golang.org/x/crypto/bcrypt"
)

const DefaultCost = 10

// MaxPasswordBytes is the longest input bcrypt hashes. Longer passwords are
// rejected at validation rather than truncated.
const MaxPasswordBytes = 72

func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
