package session

// recordVote registers voter's kick vote against target (spec.md §4.2,
// §4.6). Ported from original_source/tttod_server/src/game.rs's
// VoteKickPlayer handler.
func (s *Session) recordVote(target, voter PlayerID) {
	votes, ok := s.kickVotes[target]
	if !ok {
		votes = make(map[PlayerID]bool)
		s.kickVotes[target] = votes
	}
	votes[voter] = true
}

// revertVote removes voter's kick vote against target, if any.
func (s *Session) revertVote(target, voter PlayerID) {
	if votes, ok := s.kickVotes[target]; ok {
		delete(votes, voter)
	}
}

// quorumReached implements the kick quorum rule of spec.md §4.6: target is
// kicked iff every online player other than target has voted for it.
func (s *Session) quorumReached(target PlayerID) bool {
	total, voted := 0, 0
	votes := s.kickVotes[target]
	for _, id := range s.reg.onlineIDs() {
		if id == target {
			continue
		}
		total++
		if votes[id] {
			voted++
		}
	}
	return voted >= total
}

// scrubVotes removes id as both a kick candidate and a voter, called after
// a successful kick (spec.md §4.2).
func (s *Session) scrubVotes(id PlayerID) {
	delete(s.kickVotes, id)
	for _, votes := range s.kickVotes {
		delete(votes, id)
	}
}

// clearVotes empties the vote table (spec.md §3: "Outside Lobby,
// kick_votes is empty").
func (s *Session) clearVotes() {
	s.kickVotes = make(map[PlayerID]map[PlayerID]bool)
}

// kickVotesView snapshots the vote table for a push_state message.
func (s *Session) kickVotesView() map[PlayerID][]PlayerID {
	out := make(map[PlayerID][]PlayerID, len(s.kickVotes))
	for target, voters := range s.kickVotes {
		list := make([]PlayerID, 0, len(voters))
		for v := range voters {
			list = append(list, v)
		}
		out[target] = list
	}
	return out
}
