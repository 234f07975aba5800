package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedRandomizerConsumesRollsInOrder(t *testing.T) {
	rng := &FixedRandomizer{Rolls: [][]int{{1, 2, 3}, {6, 6, 6}}}
	assert.Equal(t, []int{1, 2, 3}, rng.RollD6(3))
	assert.Equal(t, []int{6, 6, 6}, rng.RollD6(3))
}

func TestFixedRandomizerShuffleAppliesFixedPermutationOnce(t *testing.T) {
	rng := &FixedRandomizer{Perm: []int{2, 0, 1}}
	items := []string{"a", "b", "c"}
	rng.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
	require.Equal(t, []string{"c", "a", "b"}, items)

	// A second call with the same Randomizer is a no-op: the permutation is
	// applied at most once.
	items2 := []string{"a", "b", "c"}
	rng.Shuffle(len(items2), func(i, j int) { items2[i], items2[j] = items2[j], items2[i] })
	assert.Equal(t, []string{"a", "b", "c"}, items2)
}

func TestSeededRandomizerIsDeterministic(t *testing.T) {
	a := NewSeededRandomizer(1, 2)
	b := NewSeededRandomizer(1, 2)

	assert.Equal(t, a.RollD6(5), b.RollD6(5))

	itemsA := []int{0, 1, 2, 3, 4}
	itemsB := []int{0, 1, 2, 3, 4}
	a.Shuffle(len(itemsA), func(i, j int) { itemsA[i], itemsA[j] = itemsA[j], itemsA[i] })
	b.Shuffle(len(itemsB), func(i, j int) { itemsB[i], itemsB[j] = itemsB[j], itemsB[i] })
	assert.Equal(t, itemsA, itemsB)
}
