package utils

import "golang.org/x/crypto/bcrypt"

// DefaultCost is the bcrypt cost used by the hashpass tool.
const DefaultCost = 12

// HashPassword returns a bcrypt hash of plain, suitable for
// OPERATOR_PASSWORD_HASH.  A cost outside bcrypt's range falls back to
// DefaultCost.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches hash.  An empty hash never
// matches, so a server without OPERATOR_PASSWORD_HASH issues no tokens.
func VerifyPassword(hash, plain string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
