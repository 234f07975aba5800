package session

import "context"

// defineEvilAssignment is one player's two assigned worldbuilding
// questions and their (possibly still empty) answers (spec.md §4.3).
type defineEvilAssignment struct {
	questions [2]string
	answers   [2]string
}

func (a *defineEvilAssignment) questionEntries() []QuestionEntry {
	return []QuestionEntry{
		{Question: a.questions[0], Answer: a.answers[0]},
		{Question: a.questions[1], Answer: a.answers[1]},
	}
}

func (a *defineEvilAssignment) allAnswered() bool {
	return a.answers[0] != "" && a.answers[1] != ""
}

// runDefineEvil implements spec.md §4.3: on entry every player's Ready
// flag and the kick vote table are cleared, a shuffled permutation of the
// ten fixed questions is drawn, and each player gets two. It terminates
// once every player has submitted both answers and readied up, at which
// point the full clue list is built and shuffled.
func (s *Session) runDefineEvil(ctx context.Context) Outcome {
	s.resetReady()
	s.clearVotes()
	s.broadcastSnapshot(GameStateView{Phase: PhaseDefineEvil})

	ids := s.reg.ids()
	perm := make([]int, len(questionBank))
	for i := range perm {
		perm[i] = i
	}
	s.rng.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })

	assignments := make(map[PlayerID]*defineEvilAssignment, len(ids))
	for i, id := range ids {
		a := &defineEvilAssignment{
			questions: [2]string{
				questionBank[perm[QuestionsPerPlayer*i]],
				questionBank[perm[QuestionsPerPlayer*i+1]],
			},
		}
		assignments[id] = a
		s.reg.unicast(id, NewQuestionsMessage(a.questionEntries()))
	}

	for {
		if s.allReady() {
			break
		}

		ev, ok := s.nextEvent(ctx)
		if !ok {
			return outcomeClosed
		}

		switch ev.Kind {
		case EventClientJoin:
			if !s.handleJoinPostLobby(ev.PlayerID, ev.Sink) {
				continue
			}
			_ = ev.Sink.Send(s.buildSnapshot(GameStateView{Phase: PhaseDefineEvil}))
			if a, ok := assignments[ev.PlayerID]; ok {
				_ = ev.Sink.Send(NewQuestionsMessage(a.questionEntries()))
			}

		case EventClientLeave:
			s.reg.pruneClosed(ev.PlayerID)

		case EventClientMessage:
			a, ok := assignments[ev.PlayerID]
			if !ok {
				continue
			}
			switch ev.Message.Cmd {
			case CmdAnswers:
				for i := 0; i < QuestionsPerPlayer && i < len(ev.Message.Answers); i++ {
					a.answers[i] = ev.Message.Answers[i]
				}
			case CmdReadyForGame:
				if !a.allAnswered() {
					continue
				}
				s.reg.mutate(ev.PlayerID, func(p *Player) { p.Ready = true })
				s.broadcastSnapshot(GameStateView{Phase: PhaseDefineEvil})
			}
		}
	}

	clues := make([]Clue, 0, QuestionsPerPlayer*len(ids))
	for _, id := range ids {
		a := assignments[id]
		clues = append(clues, Clue{Question: a.questions[0], Answer: a.answers[0]})
		clues = append(clues, Clue{Question: a.questions[1], Answer: a.answers[1]})
	}
	s.rng.Shuffle(len(clues), func(i, j int) { clues[i], clues[j] = clues[j], clues[i] })
	s.clues = clues

	return OutcomeOK
}
