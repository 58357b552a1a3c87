// Package otp holds email-verification codes for signups in flight. Codes
// live in process memory only: a restart simply forces the user to request a
// new code.
package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"
)

// DefaultTTL is how long a verification code stays valid.
const DefaultTTL = 10 * time.Minute

var (
	ErrCodeNotFound = errors.New("no verification code pending for this email")
	ErrCodeExpired  = errors.New("verification code has expired")
	ErrCodeMismatch = errors.New("verification code does not match")
)

// PendingSignup is the signup payload parked until the email is verified.
type PendingSignup struct {
	Fullname string
	Phone    string
	Address  string
	Password string
}

type entry struct {
	code      string
	expiresAt time.Time
	signup    PendingSignup
}

// Store keeps at most one pending code per email. Expiry is checked on
// access; Consume removes the entry on success so a code works exactly once.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// Put stores a code for the email, replacing any earlier pending code.
func (s *Store) Put(email, code string, signup PendingSignup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[email] = entry{
		code:      code,
		expiresAt: s.now().Add(s.ttl),
		signup:    signup,
	}
}

// Consume checks the code for the email. On a match the entry is removed and
// the parked signup returned. A wrong code leaves the entry in place so the
// user can retry until the code expires.
func (s *Store) Consume(email, code string) (*PendingSignup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[email]
	if !ok {
		return nil, ErrCodeNotFound
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, email)
		return nil, ErrCodeExpired
	}
	if e.code != code {
		return nil, ErrCodeMismatch
	}
	delete(s.entries, email)
	signup := e.signup
	return &signup, nil
}

// Sweep drops every expired entry. Callers may run it periodically; Consume
// already expires entries on access, so sweeping only bounds memory.
func (s *Store) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for email, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, email)
		}
	}
}

// GenerateCode returns a random 6-digit verification code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
