package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/immobiligb/immobili-api/internal/apperrors"
	"github.com/immobiligb/immobili-api/internal/models"
)

// CredentialStore holds the single service-account credential the API
// accepts. It is read from configuration at startup and never changes.
//
// The configured password may be a bcrypt hash (recognized by prefix)
// or a plaintext placeholder; plaintext is compared over sha256 digests
// so the comparison stays constant-time and length-independent.
type CredentialStore struct {
	cred     models.Credential
	isBcrypt bool
}

func NewCredentialStore(cred models.Credential) (*CredentialStore, error) {
	if cred.Username == "" || cred.Password == "" {
		return nil, errors.New("service account username and password must not be empty")
	}

	return &CredentialStore{
		cred:     cred,
		isBcrypt: looksLikeBcrypt(cred.Password),
	}, nil
}

// Check compares the supplied credentials against the stored ones.
// Returns apperrors.ErrInvalidCredentials on any mismatch; both fields
// are always compared so a wrong username costs the same as a wrong
// password.
func (s *CredentialStore) Check(username string, password string) error {
	usernameOK := constantTimeEqual(username, s.cred.Username)

	var passwordOK bool
	switch {
	case s.isBcrypt:
		passwordOK = bcrypt.CompareHashAndPassword([]byte(s.cred.Password), []byte(password)) == nil
	default:
		passwordOK = constantTimeEqual(password, s.cred.Password)
	}

	if !usernameOK || !passwordOK {
		return apperrors.ErrInvalidCredentials
	}

	return nil
}

func constantTimeEqual(a string, b string) bool {
	aSum := sha256.Sum256([]byte(a))
	bSum := sha256.Sum256([]byte(b))
	return subtle.ConstantTimeCompare(aSum[:], bSum[:]) == 1
}

func looksLikeBcrypt(s string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
