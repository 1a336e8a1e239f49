// Package exttoken derives the signed tokens that gate self-service session
// extension. Tokens are stateless: Generate is a keyed one-way function over
// the session id, and Verify recomputes it, so nothing is stored server-side
// and the same link stays valid for the life of the session.
package exttoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/google/uuid"
)

// tokenLen is the number of hex characters kept from the MAC. 16 chars
// (64 bits) keeps SMS links short while staying unguessable.
const tokenLen = 16

type Service struct {
	secret []byte
}

func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

func (s *Service) Generate(sessionID uuid.UUID) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(sessionID.String()))
	return hex.EncodeToString(mac.Sum(nil))[:tokenLen]
}

// Verify compares in constant time regardless of where the strings differ.
func (s *Service) Verify(sessionID uuid.UUID, token string) bool {
	expected := s.Generate(sessionID)
	if len(token) != len(expected) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(expected)) == 1
}
