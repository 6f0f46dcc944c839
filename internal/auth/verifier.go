// Package auth provides the credential-lookup capability the serving shell
// injects around the engine. The computation core never sees credentials.
package auth

import (
	"golang.org/x/crypto/bcrypt"

	"cyclesim/internal/config"
)

// CredentialVerifier is the single capability a shell needs to gate access to
// a user's order data.
type CredentialVerifier interface {
	Verify(username, password string) bool
}

// StaticVerifier checks passwords against bcrypt hashes loaded from config.
// It holds no mutable state and is safe for concurrent use.
type StaticVerifier struct {
	hashes map[string]string
}

func NewStaticVerifier(users []config.UserCredential) *StaticVerifier {
	hashes := make(map[string]string, len(users))
	for _, u := range users {
		if u.Username == "" || u.PasswordHash == "" {
			continue
		}
		hashes[u.Username] = u.PasswordHash
	}
	return &StaticVerifier{hashes: hashes}
}

func (v *StaticVerifier) Verify(username, password string) bool {
	if v == nil {
		return false
	}
	hash, ok := v.hashes[username]
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Usernames lists the accounts the verifier knows about, for the shell to
// enumerate tenants without touching password material.
func (v *StaticVerifier) Usernames() []string {
	if v == nil {
		return nil
	}
	out := make([]string, 0, len(v.hashes))
	for name := range v.hashes {
		out = append(out, name)
	}
	return out
}
