package session

import "context"

// Session is one running game: an isolated, long-lived, single-threaded
// state machine fed by InboundEvents (spec.md §1, §2). Call Run exactly
// once, in its own goroutine; all other access is through the channel
// returned by Events.
type Session struct {
	// GameName is the external game-name key this session was created
	// under (spec.md §1: "first to use a game-name creates it").
	GameName string

	reg       *registry
	rng       Randomizer
	kickVotes map[PlayerID]map[PlayerID]bool
	clues     []Clue

	inbound chan InboundEvent

	logf func(format string, args ...any)
}

// New constructs a fresh session. rng abstracts dice rolls and shuffles so
// tests can supply deterministic sequences (spec.md §9).
func New(gameName string, rng Randomizer) *Session {
	return &Session{
		GameName:  gameName,
		reg:       newRegistry(),
		rng:       rng,
		kickVotes: make(map[PlayerID]map[PlayerID]bool),
		inbound:   make(chan InboundEvent, 64),
		logf:      func(string, ...any) {},
	}
}

// SetLogger installs a verbose logging sink in the teacher's logf style
// (internal/config.Logf); nil disables logging.
func (s *Session) SetLogger(fn func(format string, args ...any)) {
	if fn == nil {
		fn = func(string, ...any) {}
	}
	s.logf = fn
}

// Events returns the send side of the inbound event channel; transports
// feed ClientJoin/ClientLeave/ClientMessage events here (spec.md §6).
// Closing it (or cancelling Run's context) terminates the session.
func (s *Session) Events() chan<- InboundEvent { return s.inbound }

// Run drives the session through its fixed phase sequence — Lobby,
// DefineEvil, CharacterCreation, CharacterIntroduction, one Room per
// player in randomized GM order, FinalBattle, End — to completion
// (spec.md §4.1). It returns once the game ends or the inbound stream
// closes.
func (s *Session) Run(ctx context.Context) {
	if s.runLobby(ctx) == outcomeClosed {
		return
	}
	s.logf("PHASE: %s -> define_evil", s.GameName)
	if s.runDefineEvil(ctx) == outcomeClosed {
		return
	}
	s.logf("PHASE: %s -> character_creation", s.GameName)
	if s.runCharacterCreation(ctx) == outcomeClosed {
		return
	}
	s.logf("PHASE: %s -> character_introduction", s.GameName)
	if s.runCharacterIntroduction(ctx) == outcomeClosed {
		return
	}

	gmOrder := s.reg.ids()
	s.rng.Shuffle(len(gmOrder), func(i, j int) { gmOrder[i], gmOrder[j] = gmOrder[j], gmOrder[i] })

	outcome := OutcomeVictory
	for roomIdx, gm := range gmOrder {
		s.logf("PHASE: %s -> room %d (gm=%s)", s.GameName, roomIdx, gm)
		o := s.runRoom(ctx, roomIdx, gm, gmOrder)
		if o == outcomeClosed {
			return
		}
		if o == OutcomeDefeat {
			outcome = OutcomeDefeat
			break
		}
	}

	if outcome != OutcomeDefeat {
		s.logf("PHASE: %s -> final_battle", s.GameName)
		o := s.runFinalBattle(ctx)
		if o == outcomeClosed {
			return
		}
		outcome = o
	}

	s.logf("PHASE: %s -> end (%v)", s.GameName, outcome == OutcomeVictory)
	s.runEnd(ctx, outcome)
}
