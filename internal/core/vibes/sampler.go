// Package vibes samples themed aesthetic parameter sets.
package vibes

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/ewilliams-labs/aestheticify/internal/core/domain"
)

// Sampler draws vibes from the themed pools. It is safe for concurrent use.
type Sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler validates the pools and returns a sampler seeded with seed.
// A zero seed uses the current time.
func NewSampler(seed uint64) (*Sampler, error) {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	// #nosec G404 -- aesthetic sampling, not security-sensitive
	return NewSamplerWithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// NewSamplerWithRand uses rng as the randomness source.
func NewSamplerWithRand(rng *rand.Rand) (*Sampler, error) {
	if err := Validate(); err != nil {
		return nil, err
	}
	return &Sampler{rng: rng}, nil
}

// Sample draws one background, font, pet and caption from theme's pool and
// one audio track from the shared audio pool.
func (s *Sampler) Sample(theme domain.VibeTheme) (domain.Vibe, error) {
	pool, ok := PoolFor(theme)
	if !ok {
		return domain.Vibe{}, fmt.Errorf("vibes: %w: %q", domain.ErrInvalidTheme, theme)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.Vibe{
		Background: s.pick(pool.Backgrounds),
		Font:       s.pick(pool.Fonts),
		Pet:        s.pick(pool.Pets),
		Quote:      s.pick(pool.Captions),
		Audio:      s.pick(Audios),
		Theme:      theme,
	}, nil
}

// Pick returns a uniformly chosen element of values, or "" when values is empty.
func (s *Sampler) Pick(values []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pick(values)
}

func (s *Sampler) pick(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[s.rng.IntN(len(values))]
}
