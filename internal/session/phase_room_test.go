package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomChallengeSuccessOnFirstTry(t *testing.T) {
	rng := &FixedRandomizer{Rolls: [][]int{{1, 3, 6}}}
	s, ids, sinks := newSeatedSession(rng, 2)
	gm, target := ids[0], ids[1]
	s.clues = []Clue{{Question: "q", Answer: "a"}}
	gmOrder := []PlayerID{gm, target}

	_, cancel, done := runPhase(func(ctx context.Context) Outcome {
		return s.runRoom(ctx, 0, gm, gmOrder)
	})
	defer cancel()

	s.Events() <- ClientMessageEvent(gm, ClientMessage{
		Cmd:       CmdOfferChallenge,
		Challenge: &ChallengeOffer{Target: target, Attribute: AttributeHeroic},
	})

	require.Eventually(t, func() bool { return sinks[1].count() > 0 }, time.Second, 10*time.Millisecond)
	notice, ok := sinks[1].last().(ReceivedChallengeMessage)
	require.True(t, ok, "the target gets an explicit received_challenge alongside the snapshot")
	assert.Equal(t, AttributeHeroic, notice.Challenge.Attribute)
	assert.Nil(t, notice.ChosenClueIdx, "rooms (unlike final battle) carry no clue index")

	s.Events() <- ClientMessageEvent(target, ClientMessage{Cmd: CmdChallengeAccepted})

	require.Eventually(t, func() bool {
		_, ok := sinks[1].lastChallengeResult()
		return ok
	}, time.Second, 10*time.Millisecond)
	result, ok := sinks[1].lastChallengeResult()
	require.True(t, ok)
	assert.True(t, result.Success)
	assert.False(t, result.Possession)

	require.Eventually(t, func() bool {
		ps, ok := sinks[0].lastPushState()
		return ok && ps.GameState.Successes != nil && *ps.GameState.Successes == 1
	}, time.Second, 10*time.Millisecond, "the auto-resolved success should be tallied")

	// successes is now 1 of 3 needed, so readying up as GM must not end
	// the room yet.
	s.Events() <- ClientMessageEvent(gm, ClientMessage{Cmd: CmdReadyForGame})
	select {
	case <-done:
		t.Fatal("room should not end before 3 successes")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRoomPossessionRequiresExplicitResolution(t *testing.T) {
	rng := &FixedRandomizer{Rolls: [][]int{{1, 1, 6}, {2, 4, 6}}}
	s, ids, sinks := newSeatedSession(rng, 2)
	gm, target := ids[0], ids[1]
	s.clues = []Clue{{Question: "q", Answer: "a"}}
	gmOrder := []PlayerID{gm, target}

	_, cancel, done := runPhase(func(ctx context.Context) Outcome {
		return s.runRoom(ctx, 0, gm, gmOrder)
	})
	defer cancel()

	s.Events() <- ClientMessageEvent(gm, ClientMessage{
		Cmd:       CmdOfferChallenge,
		Challenge: &ChallengeOffer{Target: target, Attribute: AttributeHeroic},
	})
	s.Events() <- ClientMessageEvent(target, ClientMessage{Cmd: CmdChallengeAccepted})

	require.Eventually(t, func() bool {
		_, ok := sinks[1].lastChallengeResult()
		return ok
	}, time.Second, 10*time.Millisecond)
	first, ok := sinks[1].lastChallengeResult()
	require.True(t, ok)
	assert.True(t, first.Success)
	assert.True(t, first.Possession, "two natural 1s alongside the 6 still flags possession")

	// Target's default artifact boon is Reroll, which possession always
	// makes eligible (spec.md §4.9); using it re-rolls onto the second
	// scripted roll, which clears possession.
	beforeArtifact := sinks[1].count()
	s.Events() <- ClientMessageEvent(target, ClientMessage{Cmd: CmdUseArtifact})
	require.Eventually(t, func() bool { return sinks[1].count() > beforeArtifact }, time.Second, 10*time.Millisecond)
	second, ok := sinks[1].lastChallengeResult()
	require.True(t, ok)
	assert.True(t, second.Success)
	assert.False(t, second.Possession)

	s.Events() <- ClientMessageEvent(target, ClientMessage{Cmd: CmdAcceptFate})
	require.Eventually(t, func() bool {
		p, _ := s.reg.get(target)
		return p.MentalCondition == MentalHale
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestCheckRoomOverDefeatPredicates(t *testing.T) {
	rng := &FixedRandomizer{}
	s, ids, _ := newSeatedSession(rng, 3)
	gmOrder := ids

	assert.Equal(t, OutcomeDefeat, s.checkRoomOver(RoomFailuresNeeded, 0, gmOrder))
	assert.Equal(t, OutcomeOK, s.checkRoomOver(0, 0, gmOrder))

	// Kill everyone but ids[2], who is scheduled as a later room's GM:
	// the game stalls because nobody else can offer them a challenge.
	s.reg.mutate(ids[0], func(p *Player) { p.Condition = ConditionDead })
	s.reg.mutate(ids[1], func(p *Player) { p.Condition = ConditionDead })
	assert.Equal(t, OutcomeDefeat, s.checkRoomOver(0, 0, gmOrder))
}

func TestCheckRoomOverLoneSurvivorWithNoFutureRoomsIsFine(t *testing.T) {
	rng := &FixedRandomizer{}
	s, ids, _ := newSeatedSession(rng, 3)
	gmOrder := ids

	s.reg.mutate(ids[1], func(p *Player) { p.Condition = ConditionDead })
	s.reg.mutate(ids[2], func(p *Player) { p.Condition = ConditionDead })

	// ids[0] is the lone survivor, and we're checking the last scheduled
	// room (gmOrder[2] = ids[2]): ids[0] never appears as a future GM, so
	// there's nobody left who still needs ids[0] as a challenge target.
	assert.Equal(t, OutcomeOK, s.checkRoomOver(0, 2, gmOrder))
}
