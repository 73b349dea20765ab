package security

import (
	"errors"
	"sync"
	"time"

	"github.com/labstack/gommon/random"
)

const challengeLength = 32

var (
	ErrUnknownChallenge = errors.New("unknown challenge")
	ErrExpiredChallenge = errors.New("challenge expired")
)

// ChallengeStore keeps issued login challenges in memory. A challenge can be
// consumed exactly once.
type ChallengeStore struct {
	mu         sync.Mutex
	ttl        time.Duration
	challenges map[string]time.Time
	now        func() time.Time
}

func NewChallengeStore(ttl time.Duration) *ChallengeStore {
	return &ChallengeStore{
		ttl:        ttl,
		challenges: make(map[string]time.Time),
		now:        time.Now,
	}
}

// Issue creates a new random challenge and returns it with its expiry
func (cs *ChallengeStore) Issue() (string, time.Time, error) {
	b, err := RandBytesFromStr(challengeLength, random.Alphanumeric)
	if err != nil {
		return "", time.Time{}, err
	}
	challenge := string(b)

	cs.mu.Lock()
	defer cs.mu.Unlock()
	now := cs.now()
	cs.prune(now)
	expiresAt := now.Add(cs.ttl)
	cs.challenges[challenge] = expiresAt
	return challenge, expiresAt, nil
}

// Consume removes the challenge and reports whether it was still valid
func (cs *ChallengeStore) Consume(challenge string) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	expiresAt, ok := cs.challenges[challenge]
	if !ok {
		return ErrUnknownChallenge
	}
	delete(cs.challenges, challenge)
	if cs.now().After(expiresAt) {
		return ErrExpiredChallenge
	}
	return nil
}

// Len is the number of outstanding challenges
func (cs *ChallengeStore) Len() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.challenges)
}

// must be called with mu held
func (cs *ChallengeStore) prune(now time.Time) {
	for challenge, expiresAt := range cs.challenges {
		if now.After(expiresAt) {
			delete(cs.challenges, challenge)
		}
	}
}
