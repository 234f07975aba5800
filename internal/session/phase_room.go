package session

import "context"

// runRoom implements spec.md §4.7 for a single room: GM gm narrates using
// clue roomIdx, offers challenges to the other players, and the room ends
// once 3 successes are banked and the GM readies up, 3 failures accrue
// (immediate session defeat), or the game stalls (every other player is
// Dead-or-Possessed and the lone survivor is scheduled as a future GM).
func (s *Session) runRoom(ctx context.Context, roomIdx int, gm PlayerID, gmOrder []PlayerID) Outcome {
	successes, failures := 0, 0
	var active *ChallengeState

	broadcastRoom := func() {
		s.broadcastPerPlayer(func(id PlayerID) PushStateMessage {
			return s.buildSnapshot(s.roomView(roomIdx, gm, successes, failures, active, id))
		})
	}

	broadcastRoom()
	s.reg.unicast(gm, NewPushClueMessage(s.clues[roomIdx].View()))

	for {
		if o := s.checkRoomOver(failures, roomIdx, gmOrder); o != OutcomeOK {
			return o
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
			_ = ev.Sink.Send(s.buildSnapshot(s.roomView(roomIdx, gm, successes, failures, active, ev.PlayerID)))
			if ev.PlayerID == gm {
				_ = ev.Sink.Send(NewPushClueMessage(s.clues[roomIdx].View()))
			}
			if active != nil && active.Offer.Target == ev.PlayerID {
				s.replayChallengeResult(active, ev.Sink)
			}

		case EventClientLeave:
			s.reg.pruneClosed(ev.PlayerID)

		case EventClientMessage:
			switch ev.Message.Cmd {
			case CmdRejectClue:
				if ev.PlayerID != gm {
					continue
				}
				if roomIdx > 0 && len(s.clues) > s.reg.count() && successes+failures == 0 {
					s.clues = removeClueAt(s.clues, roomIdx)
					s.reg.unicast(gm, NewPushClueMessage(s.clues[roomIdx].View()))
				} else {
					s.reg.unicast(gm, NewClueRejectionRejectedMessage())
				}

			case CmdOfferChallenge:
				if ev.PlayerID != gm || successes >= RoomSuccessesNeeded || active != nil || ev.Message.Challenge == nil {
					continue
				}
				offer := *ev.Message.Challenge
				if offer.Target == gm {
					continue
				}
				tp, ok := s.reg.get(offer.Target)
				if !ok || !tp.IsActive() {
					continue
				}
				active = &ChallengeState{Offer: offer}
				broadcastRoom()
				s.reg.unicast(offer.Target, NewReceivedChallengeMessage(ChallengeView{
					Target:            offer.Target,
					Attribute:         offer.Attribute,
					SpecialityApplies: offer.SpecialityApplies,
					ReputationApplies: offer.ReputationApplies,
				}, nil))

			case CmdChallengeAccepted:
				if active == nil || active.Dice != nil || ev.PlayerID != active.Offer.Target {
					continue
				}
				if s.resolveAccept(active) {
					successes++
					active = nil
				}
				broadcastRoom()

			case CmdChallengeRejected:
				if active == nil || active.Dice != nil || (ev.PlayerID != gm && ev.PlayerID != active.Offer.Target) {
					continue
				}
				target := active.Offer.Target
				active = nil
				s.reg.unicast(gm, NewAbortedChallengeMessage())
				s.reg.unicast(target, NewAbortedChallengeMessage())
				broadcastRoom()

			case CmdUseArtifact:
				if active == nil || active.Dice == nil || ev.PlayerID != active.Offer.Target {
					continue
				}
				s.applyArtifactToChallenge(active)
				broadcastRoom()

			case CmdTakeWound:
				if active == nil || active.Dice == nil || ev.PlayerID != active.Offer.Target {
					continue
				}
				s.takeWound(active.Offer.Target, active)
				successes++
				active = nil
				broadcastRoom()

			case CmdAcceptFate:
				if active == nil || active.Dice == nil || ev.PlayerID != active.Offer.Target {
					continue
				}
				if s.acceptFate(active.Offer.Target, active) {
					successes++
				} else {
					failures++
				}
				active = nil
				broadcastRoom()

			case CmdReadyForGame:
				if ev.PlayerID == gm && successes >= RoomSuccessesNeeded {
					return OutcomeOK
				}
			}
		}
	}
}

// checkRoomOver evaluates the defeat predicates of spec.md §4.7 after
// every event. It does not check the success-side advance condition,
// since that also requires the GM's explicit ReadyForGame.
func (s *Session) checkRoomOver(failures, roomIdx int, gmOrder []PlayerID) Outcome {
	if failures >= RoomFailuresNeeded {
		return OutcomeDefeat
	}
	live := s.liveActivePlayers()
	if len(live) == 0 {
		return OutcomeDefeat
	}
	if len(live) == 1 {
		lone := live[0]
		for _, futureGM := range gmOrder[roomIdx:] {
			if futureGM == lone {
				return OutcomeDefeat
			}
		}
	}
	return OutcomeOK
}

// roomView builds recipient's game_state view: the active challenge is
// visible only to the GM and its target (spec.md §4.7).
func (s *Session) roomView(roomIdx int, gm PlayerID, successes, failures int, active *ChallengeState, recipient PlayerID) GameStateView {
	gv := GameStateView{
		Phase:     PhaseRoom,
		RoomIndex: &roomIdx,
		GM:        &gm,
		Successes: &successes,
		Failures:  &failures,
	}
	if active != nil && (recipient == gm || recipient == active.Offer.Target) {
		cv := ChallengeView{
			Target:            active.Offer.Target,
			Attribute:         active.Offer.Attribute,
			SpecialityApplies: active.Offer.SpecialityApplies,
			ReputationApplies: active.Offer.ReputationApplies,
		}
		gv.Challenge = &cv
	}
	return gv
}
