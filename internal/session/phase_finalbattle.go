package session

import "context"

// runFinalBattle implements spec.md §4.8. The GM set is every Dead-or-
// Possessed player (or one uniformly random player if nobody qualifies);
// any of them may offer a challenge against an active player, choosing
// both a target and a clue index into the battle's own working copy of
// the first |players| clues.
func (s *Session) runFinalBattle(ctx context.Context) Outcome {
	n := s.reg.count()
	gms := s.finalBattleGMs()

	targetSuccesses := FinalBattleTarget(n)
	remaining := make([]Clue, n)
	copy(remaining, s.clues[:n])

	successes := 0
	var active *ChallengeState

	broadcast := func() {
		s.broadcastPerPlayer(func(id PlayerID) PushStateMessage {
			gv := s.finalBattleView(gms, successes, targetSuccesses, len(remaining), active, id)
			return s.buildSnapshotClues(gv, remaining)
		})
	}
	broadcast()

	for {
		if successes >= targetSuccesses {
			return OutcomeVictory
		}
		if len(remaining) < targetSuccesses-successes {
			return OutcomeDefeat
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
			gv := s.finalBattleView(gms, successes, targetSuccesses, len(remaining), active, ev.PlayerID)
			_ = ev.Sink.Send(s.buildSnapshotClues(gv, remaining))
			if active != nil && active.Offer.Target == ev.PlayerID {
				s.replayChallengeResult(active, ev.Sink)
			}

		case EventClientLeave:
			s.reg.pruneClosed(ev.PlayerID)

		case EventClientMessage:
			switch ev.Message.Cmd {
			case CmdOfferChallengeFinal:
				if !gms[ev.PlayerID] || active != nil || ev.Message.Challenge == nil {
					continue
				}
				offer := *ev.Message.Challenge
				if gms[offer.Target] {
					continue
				}
				tp, ok := s.reg.get(offer.Target)
				if !ok || !tp.IsActive() {
					continue
				}
				idx := ev.Message.ClueIdx
				if idx < 0 || idx >= len(remaining) {
					continue
				}
				active = &ChallengeState{Offer: offer, ClueIdx: &idx}
				broadcast()
				s.reg.unicast(offer.Target, NewReceivedChallengeMessage(ChallengeView{
					Target:            offer.Target,
					Attribute:         offer.Attribute,
					SpecialityApplies: offer.SpecialityApplies,
					ReputationApplies: offer.ReputationApplies,
				}, active.ClueIdx))

			case CmdChallengeAccepted:
				if active == nil || active.Dice != nil || ev.PlayerID != active.Offer.Target {
					continue
				}
				if s.resolveAccept(active) {
					remaining = removeClueAt(remaining, *active.ClueIdx)
					successes++
					active = nil
				}
				broadcast()

			case CmdChallengeRejected:
				if active == nil || active.Dice != nil || (!gms[ev.PlayerID] && ev.PlayerID != active.Offer.Target) {
					continue
				}
				target := active.Offer.Target
				active = nil
				s.notifyFinalBattleAbort(gms, target)
				broadcast()

			case CmdUseArtifact:
				if active == nil || active.Dice == nil || ev.PlayerID != active.Offer.Target {
					continue
				}
				s.applyArtifactToChallenge(active)
				broadcast()

			case CmdTakeWound:
				if active == nil || active.Dice == nil || ev.PlayerID != active.Offer.Target {
					continue
				}
				s.takeWound(active.Offer.Target, active)
				remaining = removeClueAt(remaining, *active.ClueIdx)
				successes++
				active = nil
				broadcast()

			case CmdAcceptFate:
				if active == nil || active.Dice == nil || ev.PlayerID != active.Offer.Target {
					continue
				}
				succ := s.acceptFate(active.Offer.Target, active)
				remaining = removeClueAt(remaining, *active.ClueIdx)
				if succ {
					successes++
				}
				active = nil
				broadcast()
			}
		}
	}
}

// finalBattleGMs picks the GM set: every Dead-or-Possessed player, or (if
// that set is empty) one uniformly random player (spec.md §4.8).
func (s *Session) finalBattleGMs() map[PlayerID]bool {
	gms := make(map[PlayerID]bool)
	for _, id := range s.reg.ids() {
		p, _ := s.reg.get(id)
		if !p.IsActive() {
			gms[id] = true
		}
	}
	if len(gms) > 0 {
		return gms
	}

	ids := s.reg.ids()
	perm := make([]int, len(ids))
	for i := range perm {
		perm[i] = i
	}
	s.rng.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
	gms[ids[perm[0]]] = true
	return gms
}

func (s *Session) notifyFinalBattleAbort(gms map[PlayerID]bool, target PlayerID) {
	for id := range gms {
		s.reg.unicast(id, NewAbortedChallengeMessage())
	}
	s.reg.unicast(target, NewAbortedChallengeMessage())
}

// finalBattleView builds recipient's game_state view: the active
// challenge (and its chosen clue index) is visible to every GM and the
// challenge's target; others see no challenge (spec.md §4.8).
func (s *Session) finalBattleView(gms map[PlayerID]bool, successes, targetSuccesses, remainingCount int, active *ChallengeState, recipient PlayerID) GameStateView {
	gmList := make([]PlayerID, 0, len(gms))
	for id := range gms {
		gmList = append(gmList, id)
	}
	gv := GameStateView{
		Phase:           PhaseFinalBattle,
		GMs:             gmList,
		Successes:       &successes,
		TargetSuccesses: &targetSuccesses,
		RemainingClues:  &remainingCount,
	}
	if active != nil && (gms[recipient] || recipient == active.Offer.Target) {
		cv := ChallengeView{
			Target:            active.Offer.Target,
			Attribute:         active.Offer.Attribute,
			SpecialityApplies: active.Offer.SpecialityApplies,
			ReputationApplies: active.Offer.ReputationApplies,
		}
		gv.Challenge = &cv
		gv.ChosenClueIdx = active.ClueIdx
	}
	return gv
}
