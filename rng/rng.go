// Package rng provides the engine's deterministic, persistable random
// source. Game state must serialize losslessly (spec §6) and RNG draws
// must be reproducible given a seed (spec §5), which rules out the
// teacher's CryptoRoller (crypto/rand, unseeded, unrecoverable position).
// Source implements the teacher's dice.Roller interface so the rest of
// the corpus's dice-consuming helpers (dice.Lazy, dice.Pool) work
// unmodified against it.
package rng

import (
	"fmt"

	"github.com/KirkDiggler/rpg-toolkit/dice"
)

var _ dice.Roller = (*Source)(nil)

// Source is a splitmix64-based deterministic Roller. Its entire
// reproducible state is its two fields, seed and counter (read through
// Seed and Counter), which is why
// state.RNGState (the JSON-serializable view) is just {Seed, Counter}.
type Source struct {
	seed    uint64
	counter uint64
}

// New returns a Source seeded with the given value and starting at draw
// index 0.
func New(seed uint64) *Source {
	return &Source{seed: seed}
}

// Resume reconstructs a Source at a specific draw position, used when
// rehydrating GameState from a persisted RNGState.
func Resume(seed, counter uint64) *Source {
	return &Source{seed: seed, counter: counter}
}

// Seed returns the original seed value.
func (s *Source) Seed() uint64 { return s.seed }

// Counter returns the number of draws made so far.
func (s *Source) Counter() uint64 { return s.counter }

// next advances the splitmix64 generator by one step and returns the raw
// 64-bit output.
func (s *Source) next() uint64 {
	s.counter++
	z := s.seed + s.counter*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Roll returns a random number from 1 to size (inclusive), matching
// dice.Roller's contract exactly.
func (s *Source) Roll(size int) (int, error) {
	if size <= 0 {
		return 0, fmt.Errorf("%w: %d", dice.ErrInvalidDieSize, size)
	}
	return int(s.next()%uint64(size)) + 1, nil
}

// RollN rolls count dice of the given size.
func (s *Source) RollN(count, size int) ([]int, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", dice.ErrInvalidDieSize, size)
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: %d", dice.ErrInvalidDieCount, count)
	}
	out := make([]int, count)
	for i := range out {
		v, err := s.Roll(size)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// DrawIndex returns a pseudo-random index in [0, n) without consuming a
// full Roll — used by the exploration token draw to pick
// from a pool while still advancing Counter so the draw is accounted for
// (spec §5: any command reading RNG is irreversible).
func (s *Source) DrawIndex(n int) int {
	if n <= 0 {
		return 0
	}
	return int(s.next() % uint64(n))
}
