// Package password hashea y verifica contraseñas con bcrypt.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrTooShort = errors.New("password must be at least 8 characters")

const minLength = 8

// Hash devuelve el hash bcrypt de la contraseña.
func Hash(plain string) (string, error) {
	if len(plain) < minLength {
		return "", ErrTooShort
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Check compara la contraseña con su hash.
func Check(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
