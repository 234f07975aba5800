package session

import "context"

// runLobby implements spec.md §4.2: it loops until at least MinPlayers are
// present and all of them are ready.
func (s *Session) runLobby(ctx context.Context) Outcome {
	for {
		if s.reg.count() >= MinPlayers && s.allReady() {
			return OutcomeOK
		}

		ev, ok := s.nextEvent(ctx)
		if !ok {
			return outcomeClosed
		}

		switch ev.Kind {
		case EventClientJoin:
			s.lobbyJoin(ev.PlayerID, ev.Sink)
		case EventClientLeave:
			s.reg.pruneClosed(ev.PlayerID)
		case EventClientMessage:
			s.lobbyMessage(ev.PlayerID, ev.Message)
		}
	}
}

func (s *Session) lobbyJoin(id PlayerID, sink Sink) {
	if s.reg.has(id) {
		s.reg.addSink(id, sink, Player{})
		_ = sink.Send(s.buildSnapshot(GameStateView{Phase: PhaseLobby}))
		return
	}
	if s.reg.count() >= MaxPlayers {
		_ = sink.Send(NewGameIsFullMessage())
		sink.Close()
		return
	}
	s.reg.addSink(id, sink, NewPlayer())
	s.broadcastSnapshot(GameStateView{Phase: PhaseLobby})
}

func (s *Session) lobbyMessage(id PlayerID, msg ClientMessage) {
	if !s.reg.has(id) {
		return
	}
	switch msg.Cmd {
	case CmdSetPlayerName:
		s.reg.mutate(id, func(p *Player) { p.Name = msg.Name })
		s.broadcastSnapshot(GameStateView{Phase: PhaseLobby})

	case CmdReadyForGame:
		s.reg.mutate(id, func(p *Player) { p.Ready = true })
		s.broadcastSnapshot(GameStateView{Phase: PhaseLobby})

	case CmdVoteKickPlayer:
		if msg.TargetPlayerID == id || !s.reg.has(msg.TargetPlayerID) {
			return
		}
		s.recordVote(msg.TargetPlayerID, id)
		if s.quorumReached(msg.TargetPlayerID) {
			s.reg.remove(msg.TargetPlayerID)
			s.scrubVotes(msg.TargetPlayerID)
		}
		s.broadcastSnapshot(GameStateView{Phase: PhaseLobby})

	case CmdRevertVoteKickPlayer:
		s.revertVote(msg.TargetPlayerID, id)
	}
}
