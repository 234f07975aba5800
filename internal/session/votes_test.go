package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuorumReachedOnlyCountsOnlineVoters(t *testing.T) {
	rng := &FixedRandomizer{}
	s, ids, sinks := newSeatedSession(rng, 4)
	target, a, b, c := ids[0], ids[1], ids[2], ids[3]

	// c goes offline: quorum should only require a and b's votes.
	sinks[3].Close()
	s.reg.pruneClosed(c)

	s.recordVote(target, a)
	assert.False(t, s.quorumReached(target), "b hasn't voted yet")

	s.recordVote(target, b)
	assert.True(t, s.quorumReached(target), "every online non-target player has voted")
}

func TestQuorumVacuouslyTrueWhenNoOtherOnlinePlayers(t *testing.T) {
	rng := &FixedRandomizer{}
	s, ids, _ := newSeatedSession(rng, 1)
	assert.True(t, s.quorumReached(ids[0]), "0 of 0 online voters is vacuously a quorum")
}

func TestRevertVoteRemovesOnlyThatVoter(t *testing.T) {
	rng := &FixedRandomizer{}
	s, ids, _ := newSeatedSession(rng, 3)
	target, a, b := ids[0], ids[1], ids[2]

	s.recordVote(target, a)
	s.recordVote(target, b)
	s.revertVote(target, a)

	assert.False(t, s.quorumReached(target))
	s.recordVote(target, a)
	assert.True(t, s.quorumReached(target))
}

func TestScrubVotesRemovesBothCandidacyAndVotes(t *testing.T) {
	rng := &FixedRandomizer{}
	s, ids, _ := newSeatedSession(rng, 3)
	x, y := ids[0], ids[1]

	s.recordVote(x, y)
	s.recordVote(y, x)

	s.scrubVotes(x)

	require.NotContains(t, s.kickVotes, x, "x should no longer be a kick candidate")
	assert.False(t, s.kickVotes[y][x], "x's vote against y should also be gone")
}

func TestClearVotesEmptiesTable(t *testing.T) {
	rng := &FixedRandomizer{}
	s, ids, _ := newSeatedSession(rng, 2)
	s.recordVote(ids[0], ids[1])
	s.clearVotes()
	assert.Empty(t, s.kickVotesView())
}
