package models

import (
	"time"
)

// IssuedToken is a signed bearer token handed out on login.
// The token is stateless: nothing about it is stored server-side and it
// stays valid until ExpiresAt no matter what.
type IssuedToken struct {
	Value     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Credential is the single service-account credential the API accepts.
// Loaded from configuration at startup, immutable afterwards.
// Password may hold either a bcrypt hash or a plaintext placeholder.
type Credential struct {
	Username string
	Password string
}
