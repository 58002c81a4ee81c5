// Package access guards write operations behind the single shared credential.
package access

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/Renato2024Valente/Buscativa2026/core"
)

// Gate checks credentials against a bcrypt hash of the shared password.
type Gate struct {
	hash []byte
}

// NewGate builds a Gate from a bcrypt hash when one is configured, else from the plain password.
func NewGate(password, passwordHash string) (*Gate, error) {
	if passwordHash = strings.TrimSpace(passwordHash); passwordHash != "" {
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, errors.Wrap(err, "parsing admin password hash")
		}
		return &Gate{hash: []byte(passwordHash)}, nil
	}
	if password = strings.TrimSpace(password); password == "" {
		return nil, errors.New("an admin password or password hash is required")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &Gate{hash: []byte(hash)}, nil
}

// Check returns core.ErrUnauthorized for any mismatch without telling why.
func (g *Gate) Check(credential string) error {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return core.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(g.hash, []byte(credential)); err != nil {
		return core.ErrUnauthorized
	}
	return nil
}

// HashPassword returns the bcrypt hash to store in ADMIN_PASSWORD_HASH.
func HashPassword(pwd string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hashing password")
	}
	return string(hash), nil
}
