package session

// ChallengeState is the nested challenge state machine shared by Room and
// FinalBattle (spec.md §4.7-§4.9): offer -> accept/reject -> roll ->
// optional artifact use -> accept-fate / take-wound. It is held as a local
// variable by whichever phase handler is running; only one challenge is
// ever active at a time.
type ChallengeState struct {
	Offer ChallengeOffer

	// Dice is nil until ChallengeAccepted rolls; non-nil means a result is
	// pending a follow-up decision (UseArtifact / TakeWound / AcceptFate).
	Dice []int

	// Boon governs the success predicate once AcceptFate/TakeWound
	// finalizes. It is the zero value (no boon) until UseArtifact applies
	// the target's artifact boon (spec.md §4.9 "current_artifact_used").
	Boon ArtifactBoon

	// ClueIdx is set only in FinalBattle: the index into remaining_clues
	// the GM chose alongside the target (spec.md §4.8).
	ClueIdx *int
}

func (c *ChallengeState) success() bool    { return success(c.Dice, c.Boon) }
func (c *ChallengeState) possession() bool { return possession(c.Dice) }

// diceCount computes a challenge's dice pool: the target's attribute value
// plus one die per applicable modifier (spec.md §4.9).
func diceCount(target Player, offer ChallengeOffer) int {
	n := target.Stats.Attributes[offer.Attribute]
	if offer.SpecialityApplies {
		n++
	}
	if offer.ReputationApplies {
		n++
	}
	return n
}

// success reports whether dice satisfy boon's success predicate. The zero
// ArtifactBoon value stands for "no boon" (None, Reroll, and
// RollWithPlusTwo all fall through to the natural die-shows-6 predicate;
// spec.md §4.9).
func success(dice []int, boon ArtifactBoon) bool {
	switch boon {
	case BoonSuccessOnFive:
		return hasValue(dice, 5)
	case BoonSuccessOnDoubles:
		return hasDuplicate(dice)
	default:
		return hasValue(dice, 6)
	}
}

// possession reports whether dice show the possession pattern: two or
// more 1s, or two or more 2s (spec.md §4.9).
func possession(dice []int) bool {
	ones, twos := 0, 0
	for _, d := range dice {
		switch d {
		case 1:
			ones++
		case 2:
			twos++
		}
	}
	return ones >= 2 || twos >= 2
}

func hasValue(dice []int, v int) bool {
	for _, d := range dice {
		if d == v {
			return true
		}
	}
	return false
}

func hasDuplicate(dice []int) bool {
	seen := make(map[int]bool, len(dice))
	for _, d := range dice {
		if seen[d] {
			return true
		}
		seen[d] = true
	}
	return false
}

// canUseArtifact implements the eligibility table of spec.md §4.9.
func canUseArtifact(dice []int, boon ArtifactBoon, artifactUsed bool) bool {
	if artifactUsed {
		return false
	}
	s := success(dice, "")
	p := possession(dice)
	switch {
	case s && !p:
		return false
	case p && boon == BoonReroll:
		return true
	case !s:
		switch boon {
		case BoonSuccessOnFive:
			return hasValue(dice, 5)
		case BoonSuccessOnDoubles:
			return hasDuplicate(dice)
		default:
			return true
		}
	default:
		return false
	}
}

// applyArtifact transforms a retained roll per boon (spec.md §4.9):
// Reroll re-rolls the same dice count, RollWithPlusTwo appends two fresh
// dice, and SuccessOnFive/SuccessOnDoubles leave the dice untouched since
// only the success predicate shifts for those boons.
func applyArtifact(rng Randomizer, dice []int, boon ArtifactBoon) []int {
	switch boon {
	case BoonReroll:
		return rng.RollD6(len(dice))
	case BoonRollWithPlusTwo:
		out := make([]int, 0, len(dice)+2)
		out = append(out, dice...)
		out = append(out, rng.RollD6(2)...)
		return out
	default:
		return dice
	}
}

// resolveAccept rolls dice for active's target on ChallengeAccepted and
// reports the result to the target only (spec.md §4.9: "expose
// ChallengeResult ... to the target"). It returns true when the roll
// auto-resolves as a success requiring no further decision (natural
// success with no possession, or natural success with possession but the
// artifact already spent); the caller should then count the success and
// clear the challenge. A false return leaves active.Dice populated,
// pending UseArtifact/TakeWound/AcceptFate.
func (s *Session) resolveAccept(active *ChallengeState) bool {
	target, _ := s.reg.get(active.Offer.Target)
	dice := s.rng.RollD6(diceCount(target, active.Offer))

	natSuccess := success(dice, "")
	poss := possession(dice)
	can := canUseArtifact(dice, target.Stats.ArtifactBoon, target.ArtifactUsed)

	s.reg.unicast(active.Offer.Target, NewChallengeResultMessage(dice, natSuccess, poss, can))

	if natSuccess && (!poss || target.ArtifactUsed) {
		if poss {
			s.degradeMental(active.Offer.Target)
		}
		return true
	}

	active.Dice = dice
	active.Boon = ""
	return false
}

// applyArtifactToChallenge marks the target's artifact used and re-rolls
// or re-evaluates the retained dice per their boon (spec.md §4.9
// UseArtifact). It is a no-op if the artifact is already spent or no
// eligible roll is pending.
func (s *Session) applyArtifactToChallenge(active *ChallengeState) {
	target, _ := s.reg.get(active.Offer.Target)
	if target.ArtifactUsed || active.Dice == nil {
		return
	}
	boon := target.Stats.ArtifactBoon
	if !canUseArtifact(active.Dice, boon, target.ArtifactUsed) {
		return
	}

	s.reg.mutate(active.Offer.Target, func(p *Player) { p.ArtifactUsed = true })
	active.Dice = applyArtifact(s.rng, active.Dice, boon)
	active.Boon = boon

	s.reg.unicast(active.Offer.Target, NewChallengeResultMessage(active.Dice, active.success(), active.possession(), false))
}

// takeWound degrades the target's condition one step, degrades mental
// condition too if the retained roll shows possession, and always counts
// as a success for the caller's bookkeeping (spec.md §4.7, §4.9).
func (s *Session) takeWound(target PlayerID, active *ChallengeState) {
	poss := active.possession()
	s.reg.mutate(target, func(p *Player) {
		p.Condition = p.Condition.Degrade()
		if poss {
			p.MentalCondition = p.MentalCondition.Degrade()
		}
	})
}

// acceptFate finalizes a pending challenge using the (possibly
// artifact-shifted) success predicate, degrading mental condition on
// possession. The caller is responsible for success/failure bookkeeping
// (spec.md §4.7-§4.9).
func (s *Session) acceptFate(target PlayerID, active *ChallengeState) bool {
	succ := active.success()
	if active.possession() {
		s.degradeMental(target)
	}
	return succ
}

func (s *Session) degradeMental(id PlayerID) {
	s.reg.mutate(id, func(p *Player) { p.MentalCondition = p.MentalCondition.Degrade() })
}

// replayChallengeResult resends a pending challenge's result to a
// reconnecting target, recomputing artifact eligibility fresh (spec.md
// §4.7 "send a replayed ChallengeResult with recomputed can_use_artifact
// eligibility").
func (s *Session) replayChallengeResult(active *ChallengeState, sink Sink) {
	if active == nil || active.Dice == nil {
		return
	}
	target, _ := s.reg.get(active.Offer.Target)
	can := canUseArtifact(active.Dice, target.Stats.ArtifactBoon, target.ArtifactUsed)
	_ = sink.Send(NewChallengeResultMessage(active.Dice, active.success(), active.possession(), can))
}
