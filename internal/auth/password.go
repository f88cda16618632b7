package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the most bcrypt will hash.
const MaxPasswordBytes = 72

// Hasher is swappable so tests can use bcrypt.MinCost.
type Hasher struct {
	Cost int
}

func (h Hasher) Hash(plain string) (string, error) {
	if len(plain) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	return string(b), err
}

func (Hasher) Check(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
