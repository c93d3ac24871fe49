// File: internal/wish/selector.go
package wish

import (
	"math/rand"
	"sync"

	"github.com/RulerDevansh/SecretSanta/internal/user"

	"github.com/google/uuid"
)

// RandomSource yields a uniform draw in [0, n). It exists so selection can be
// made deterministic in tests; production uses a seeded math/rand source.
type RandomSource interface {
	Intn(n int) int
}

// lockedRand wraps a rand.Rand for concurrent use across request handlers.
type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Intn(n)
}

// NewRandomSource returns a concurrency-safe source seeded from seed.
func NewRandomSource(seed int64) RandomSource {
	return &lockedRand{rnd: rand.New(rand.NewSource(seed))}
}

// SelectRecipient picks who receives the submitter's wish.
//
// Candidates are every group member except the excluded submitter. Members
// who have not yet been assigned a gift duty are preferred; when all
// candidates already carry an assignment the draw falls back to the full
// candidate set rather than failing. The draw is uniform within the pool.
//
// The chosen member's flag is not touched here. Callers persist it only
// after the wish email has actually been sent, so an undeliverable pick
// never burns a member's "unassigned" status.
func SelectRecipient(members []user.User, excludedUserID uuid.UUID, rng RandomSource) (user.User, error) {
	candidates := make([]user.User, 0, len(members))
	for _, m := range members {
		if m.ID != excludedUserID {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return user.User{}, ErrNoEligibleMembers
	}

	pool := make([]user.User, 0, len(candidates))
	for _, c := range candidates {
		if !c.HasAssignedGift {
			pool = append(pool, c)
		}
	}
	if len(pool) == 0 {
		pool = candidates
	}

	return pool[rng.Intn(len(pool))], nil
}
