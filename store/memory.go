package store

import (
	"sync"
	"time"

	"github.com/splitsecure/go-u2f/u2f"
)

type memoryCredentialStore struct {
	mu    sync.RWMutex
	creds map[string]u2f.Credential
}

// NewMemoryCredentialStore returns a CredentialStore backed by a map.
func NewMemoryCredentialStore() CredentialStore {
	return &memoryCredentialStore{
		creds: make(map[string]u2f.Credential),
	}
}

func (s *memoryCredentialStore) Load(keyHandle string) (*u2f.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cred, ok := s.creds[keyHandle]
	if !ok {
		return nil, ErrCredentialNotFound
	}
	return &cred, nil
}

func (s *memoryCredentialStore) Save(cred *u2f.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds[cred.KeyHandle] = *cred
	return nil
}

func (s *memoryCredentialStore) CommitCounter(keyHandle string, previous, next uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, ok := s.creds[keyHandle]
	if !ok {
		return ErrCredentialNotFound
	}
	if cred.Counter != previous {
		return ErrCounterConflict
	}
	cred.Counter = next
	s.creds[keyHandle] = cred
	return nil
}

type pendingChallenge struct {
	challenge *u2f.Challenge
	expiresAt time.Time
}

type memoryChallengeStore struct {
	mu      sync.Mutex
	pending map[string]pendingChallenge

	now func() time.Time
}

// NewMemoryChallengeStore returns a ChallengeStore backed by a map.
func NewMemoryChallengeStore() ChallengeStore {
	return &memoryChallengeStore{
		pending: make(map[string]pendingChallenge),
		now:     time.Now,
	}
}

func (s *memoryChallengeStore) Put(ch *u2f.Challenge, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[ch.Challenge] = pendingChallenge{
		challenge: ch,
		expiresAt: expiresAt,
	}
	return nil
}

func (s *memoryChallengeStore) Take(challenge string) (*u2f.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[challenge]
	if !ok {
		return nil, ErrChallengeNotFound
	}
	delete(s.pending, challenge)

	if s.now().After(p.expiresAt) {
		return nil, ErrChallengeNotFound
	}
	return p.challenge, nil
}
