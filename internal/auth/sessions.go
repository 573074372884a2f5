// Package auth holds the admin session store. There is a single shared
// secret; a successful login issues an opaque bearer token that gates the
// mutation endpoints until it expires or is revoked.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Sessions struct {
	secret string
	hash   string
	ttl    time.Duration

	mu     sync.Mutex
	tokens map[string]time.Time
	now    func() time.Time
}

// NewSessions configures the store with a plain secret and/or its bcrypt
// hash. The hash wins when both are set; with neither, every login fails.
func NewSessions(secret, hash string, ttl time.Duration) *Sessions {
	return &Sessions{
		secret: secret,
		hash:   hash,
		ttl:    ttl,
		tokens: make(map[string]time.Time),
		now:    time.Now,
	}
}

// Login checks the password and issues a token on success.
func (s *Sessions) Login(password string) (string, bool) {
	if !s.check(password) {
		return "", false
	}

	token := newToken()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()
	s.tokens[token] = s.now().Add(s.ttl)
	return token, true
}

// Valid reports whether the token belongs to a live session.
func (s *Sessions) Valid(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.tokens[token]
	if !ok {
		return false
	}
	if s.now().After(exp) {
		delete(s.tokens, token)
		return false
	}
	return true
}

func (s *Sessions) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

func (s *Sessions) check(password string) bool {
	if s.hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.hash), []byte(password)) == nil
	}
	if s.secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.secret), []byte(password)) == 1
}

// prune drops expired tokens. Callers hold the lock.
func (s *Sessions) prune() {
	now := s.now()
	for tok, exp := range s.tokens {
		if now.After(exp) {
			delete(s.tokens, tok)
		}
	}
}

func newToken() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}
