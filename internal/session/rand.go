package session

import (
	"crypto/rand"
	"math/big"
	mathrand "math/rand/v2"
)

// Randomizer abstracts the randomness source behind rolls and shuffles,
// per spec.md §9 ("Abstract the randomness source behind an interface
// with shuffle and roll_d6(n) operations to enable seeded deterministic
// testing").
type Randomizer interface {
	// RollD6 returns n independent uniform integers in [1,6].
	RollD6(n int) []int
	// Shuffle permutes a slice of length n in place via swap, using the
	// same contract as math/rand.Shuffle.
	Shuffle(n int, swap func(i, j int))
}

// cryptoRandomizer is the production Randomizer, grounded on
// Seednode-partybox/celebrity.go's startGameLocked, which draws its
// Fisher-Yates shuffle indices from crypto/rand rather than a seeded PRNG.
type cryptoRandomizer struct{}

// NewRandomizer returns the production, crypto/rand-backed Randomizer.
func NewRandomizer() Randomizer {
	return cryptoRandomizer{}
}

func (cryptoRandomizer) RollD6(n int) []int {
	rolls := make([]int, n)
	for i := range rolls {
		rolls[i] = cryptoIntn(6) + 1
	}
	return rolls
}

func (cryptoRandomizer) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := cryptoIntn(i + 1)
		swap(i, j)
	}
}

func cryptoIntn(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand failure is unrecoverable entropy starvation; fall
		// back to a non-cryptographic source rather than panicking a
		// running game session.
		return mathrand.IntN(n)
	}
	return int(v.Int64())
}

// NewSeededRandomizer returns a deterministic Randomizer for tests,
// driven by math/rand/v2's PCG source.
func NewSeededRandomizer(seed1, seed2 uint64) Randomizer {
	return &seededRandomizer{r: mathrand.New(mathrand.NewPCG(seed1, seed2))}
}

type seededRandomizer struct {
	r *mathrand.Rand
}

func (s *seededRandomizer) RollD6(n int) []int {
	rolls := make([]int, n)
	for i := range rolls {
		rolls[i] = s.r.IntN(6) + 1
	}
	return rolls
}

func (s *seededRandomizer) Shuffle(n int, swap func(i, j int)) {
	s.r.Shuffle(n, swap)
}

// FixedRandomizer is a test double that returns pre-scripted rolls (one
// slice per call, consumed in order) and performs no-op shuffles unless a
// permutation is supplied.
type FixedRandomizer struct {
	Rolls    [][]int
	rollIdx  int
	Perm     []int // if non-nil, Shuffle applies this fixed permutation once
	permUsed bool
}

func (f *FixedRandomizer) RollD6(n int) []int {
	if f.rollIdx >= len(f.Rolls) {
		// Out of scripted rolls: return a neutral low roll so tests that
		// over-roll fail loudly on assertions rather than panicking here.
		return make([]int, n)
	}
	roll := f.Rolls[f.rollIdx]
	f.rollIdx++
	return roll
}

func (f *FixedRandomizer) Shuffle(n int, swap func(i, j int)) {
	if f.Perm == nil || f.permUsed || len(f.Perm) != n {
		return
	}
	f.permUsed = true
	// Apply the desired permutation via selection: result[i] should end
	// up holding original index Perm[i]. Build it with a temp scratch of
	// indices and repeated swaps.
	cur := make([]int, n)
	for i := range cur {
		cur[i] = i
	}
	for i := 0; i < n; i++ {
		target := f.Perm[i]
		j := i
		for cur[j] != target {
			j++
		}
		if j != i {
			swap(i, j)
			cur[i], cur[j] = cur[j], cur[i]
		}
	}
}
