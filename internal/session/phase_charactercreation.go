package session

import "context"

// runCharacterCreation implements spec.md §4.4: each player submits their
// character stats (only while not yet ready) and readies up once their
// stats satisfy the readiness predicate.
func (s *Session) runCharacterCreation(ctx context.Context) Outcome {
	s.resetReady()
	s.broadcastSnapshot(GameStateView{Phase: PhaseCharacterCreation})

	for {
		if s.allReady() {
			return OutcomeOK
		}

		ev, ok := s.nextEvent(ctx)
		if !ok {
			return outcomeClosed
		}

		switch ev.Kind {
		case EventClientJoin:
			if s.handleJoinPostLobby(ev.PlayerID, ev.Sink) {
				_ = ev.Sink.Send(s.buildSnapshot(GameStateView{Phase: PhaseCharacterCreation}))
			}

		case EventClientLeave:
			s.reg.pruneClosed(ev.PlayerID)

		case EventClientMessage:
			switch ev.Message.Cmd {
			case CmdSetCharacter:
				p, ok := s.reg.get(ev.PlayerID)
				if !ok || p.Ready || ev.Message.Stats == nil {
					continue
				}
				stats := *ev.Message.Stats
				s.reg.mutate(ev.PlayerID, func(pl *Player) { pl.Stats = &stats })
				s.broadcastSnapshot(GameStateView{Phase: PhaseCharacterCreation})

			case CmdReadyForGame:
				p, ok := s.reg.get(ev.PlayerID)
				if !ok || p.Stats == nil || !p.Stats.IsReady() {
					continue
				}
				s.reg.mutate(ev.PlayerID, func(pl *Player) { pl.Ready = true })
				s.broadcastSnapshot(GameStateView{Phase: PhaseCharacterCreation})
			}
		}
	}
}
