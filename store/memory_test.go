package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/splitsecure/go-u2f/u2f"
)

func TestMemoryCredentialStore(t *testing.T) {
	s := NewMemoryCredentialStore()

	_, err := s.Load("kh1")
	require.ErrorIs(t, err, ErrCredentialNotFound)

	require.NoError(t, s.Save(&u2f.Credential{KeyHandle: "kh1", PublicKey: []byte{0x04}, Counter: 5}))

	cred, err := s.Load("kh1")
	require.NoError(t, err)
	require.Equal(t, uint32(5), cred.Counter)

	// loaded value is a copy; mutating it must not touch the store
	cred.Counter = 99
	again, err := s.Load("kh1")
	require.NoError(t, err)
	require.Equal(t, uint32(5), again.Counter)
}

func TestCommitCounter(t *testing.T) {
	s := NewMemoryCredentialStore()
	require.NoError(t, s.Save(&u2f.Credential{KeyHandle: "kh1", Counter: 5}))

	require.NoError(t, s.CommitCounter("kh1", 5, 7))

	cred, err := s.Load("kh1")
	require.NoError(t, err)
	require.Equal(t, uint32(7), cred.Counter)

	// second ceremony verified against the stale snapshot loses the race
	err = s.CommitCounter("kh1", 5, 7)
	require.ErrorIs(t, err, ErrCounterConflict)

	err = s.CommitCounter("missing", 5, 7)
	require.ErrorIs(t, err, ErrCredentialNotFound)
}

func TestCommitCounterConcurrent(t *testing.T) {
	s := NewMemoryCredentialStore()
	require.NoError(t, s.Save(&u2f.Credential{KeyHandle: "kh1", Counter: 0}))

	const attempts = 32
	var wg sync.WaitGroup
	wins := make(chan struct{}, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.CommitCounter("kh1", 0, 1) == nil {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	require.Len(t, wins, 1)
}

func TestMemoryChallengeStoreSingleUse(t *testing.T) {
	s := NewMemoryChallengeStore()

	ch, err := u2f.NewChallenge(u2f.Version, "abc123", "https://example.com", "kh1", []string{"https://example.com"})
	require.NoError(t, err)

	require.NoError(t, s.Put(ch, time.Now().Add(time.Minute)))

	got, err := s.Take("abc123")
	require.NoError(t, err)
	require.True(t, ch.Equal(got))

	// consumed on first take
	_, err = s.Take("abc123")
	require.ErrorIs(t, err, ErrChallengeNotFound)

	_, err = s.Take("never-issued")
	require.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestMemoryChallengeStoreExpiry(t *testing.T) {
	clock := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &memoryChallengeStore{
		pending: make(map[string]pendingChallenge),
		now:     func() time.Time { return clock },
	}

	ch, err := u2f.NewChallenge(u2f.Version, "abc123", "https://example.com", "kh1", []string{"https://example.com"})
	require.NoError(t, err)
	require.NoError(t, s.Put(ch, clock.Add(5*time.Minute)))

	clock = clock.Add(10 * time.Minute)
	_, err = s.Take("abc123")
	require.ErrorIs(t, err, ErrChallengeNotFound)

	// expiry consumes too; the nonce cannot come back
	require.Empty(t, s.pending)
}
