package auth

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

const devCodeTTL = 5 * time.Minute

// DevCodeStore issues and consumes one-time authorization codes for the dev
// login flow. Codes live in memory only and expire after five minutes.
type DevCodeStore struct {
	mu    sync.Mutex
	codes map[string]devCode
	now   func() time.Time
}

type devCode struct {
	userID    string
	expiresAt time.Time
}

func NewDevCodeStore() *DevCodeStore {
	return &DevCodeStore{codes: make(map[string]devCode), now: time.Now}
}

// Issue mints a single-use code bound to userID.
func (s *DevCodeStore) Issue(userID string) (string, error) {
	b := make([]byte, 18)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	code := "dev_" + hex.EncodeToString(b)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[code] = devCode{userID: userID, expiresAt: s.now().Add(devCodeTTL)}
	return code, nil
}

// Consume removes the code and returns the bound user id, or "" if the code
// is unknown or expired. A code can be consumed at most once.
func (s *DevCodeStore) Consume(code string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.codes[code]
	if !ok {
		return ""
	}
	delete(s.codes, code)
	if rec.expiresAt.Before(s.now()) {
		return ""
	}
	return rec.userID
}
