package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAddSinkReportsExistingPlayer(t *testing.T) {
	r := newRegistry()
	id := uuid.New()

	existed := r.addSink(id, &fakeSink{}, NewPlayer())
	assert.False(t, existed, "first connection creates the player record")

	existed = r.addSink(id, &fakeSink{}, Player{})
	assert.True(t, existed, "second connection reuses the player record")

	p, ok := r.get(id)
	require.True(t, ok)
	assert.Equal(t, ConditionHale, p.Condition, "the initial record from the first join wins")
}

func TestRegistryPruneClosedKeepsLiveSinks(t *testing.T) {
	r := newRegistry()
	id := uuid.New()
	live := &fakeSink{}
	dead := &fakeSink{}
	dead.Close()

	r.addSink(id, live, NewPlayer())
	r.addSink(id, dead, Player{})

	r.pruneClosed(id)

	assert.Equal(t, []PlayerID{id}, r.onlineIDs())
	r.unicast(id, "hi")
	assert.Equal(t, 1, live.count())
}

func TestRegistryUnicastPrunesFailingSink(t *testing.T) {
	r := newRegistry()
	id := uuid.New()
	bad := &fakeSink{closed: true} // Send fails immediately
	good := &fakeSink{}

	r.addSink(id, bad, NewPlayer())
	r.addSink(id, good, Player{})

	r.unicast(id, "msg")

	assert.Equal(t, 1, good.count())
	assert.Equal(t, 0, bad.count())
}

func TestRegistryRemoveDropsFromStableOrder(t *testing.T) {
	r := newRegistry()
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	r.addSink(a, &fakeSink{}, NewPlayer())
	r.addSink(b, &fakeSink{}, NewPlayer())
	r.addSink(c, &fakeSink{}, NewPlayer())

	r.remove(b)

	assert.Equal(t, []PlayerID{a, c}, r.ids())
	assert.False(t, r.has(b))
}

func TestRegistryBroadcastExceptSkipsGivenID(t *testing.T) {
	r := newRegistry()
	a, b := uuid.New(), uuid.New()
	sinkA, sinkB := &fakeSink{}, &fakeSink{}
	r.addSink(a, sinkA, NewPlayer())
	r.addSink(b, sinkB, NewPlayer())

	r.broadcastExcept(a, "msg")

	assert.Equal(t, 0, sinkA.count())
	assert.Equal(t, 1, sinkB.count())
}
