package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefineEvilAssignsTwoQuestionsPerPlayerAndBuildsClues(t *testing.T) {
	s := New("test", &FixedRandomizer{})
	p1, p2, p3 := uuid.New(), uuid.New(), uuid.New()
	s1, s2, s3 := &fakeSink{}, &fakeSink{}, &fakeSink{}
	s.reg.addSink(p1, s1, NewPlayer())
	s.reg.addSink(p2, s2, NewPlayer())
	s.reg.addSink(p3, s3, NewPlayer())

	_, cancel, done := runPhase(s.runDefineEvil)
	defer cancel()

	require.Eventually(t, func() bool { return s1.count() > 0 }, time.Second, 10*time.Millisecond)
	qm, ok := s1.last().(QuestionsMessage)
	require.True(t, ok)
	assert.Len(t, qm.Questions, QuestionsPerPlayer)

	for _, id := range []PlayerID{p1, p2, p3} {
		s.Events() <- ClientMessageEvent(id, ClientMessage{Cmd: CmdAnswers, Answers: []string{"a1", "a2"}})
		s.Events() <- ClientMessageEvent(id, ClientMessage{Cmd: CmdReadyForGame})
	}

	requireOutcome(t, done, OutcomeOK)
	assert.Len(t, s.clues, QuestionsPerPlayer*3)
}

func TestDefineEvilReadyRequiresBothAnswers(t *testing.T) {
	s := New("test", &FixedRandomizer{})
	p1, p2, p3 := uuid.New(), uuid.New(), uuid.New()
	s.reg.addSink(p1, &fakeSink{}, NewPlayer())
	s.reg.addSink(p2, &fakeSink{}, NewPlayer())
	s.reg.addSink(p3, &fakeSink{}, NewPlayer())

	_, cancel, done := runPhase(s.runDefineEvil)
	defer cancel()

	s.Events() <- ClientMessageEvent(p1, ClientMessage{Cmd: CmdAnswers, Answers: []string{"only one"}})
	s.Events() <- ClientMessageEvent(p1, ClientMessage{Cmd: CmdReadyForGame})

	select {
	case <-done:
		t.Fatal("readying up with an unanswered question must be rejected")
	case <-time.After(100 * time.Millisecond):
	}
	p, _ := s.reg.get(p1)
	assert.False(t, p.Ready, "readying up with an unanswered question must be rejected")

	cancel()
	<-done
}
