package session

import "github.com/google/uuid"

// Sink is a per-client outbound message sink (spec.md §6). Send must be
// non-blocking and return an error on a full or closed sink; the registry
// treats any error as a signal to drop this sink from the player's sink
// list (spec.md §5, "Backpressure / failure on sinks"). Closed reports
// whether the underlying connection has already gone away, so a
// ClientLeave event (which carries no sink reference) can prune exactly
// the sinks that died without disturbing a player's other live tabs.
type Sink interface {
	Send(msg any) error
	Closed() bool
	// Close tells the transport to tear down this connection. Used for
	// the two explicit rejections spec.md §7 names (game_is_full,
	// game_is_ongoing): the core sends a final message then closes the
	// sink outright rather than waiting for a future failed Send.
	Close()
}

// EventKind tags the three inbound event variants the core consumes.
type EventKind int

const (
	EventClientJoin EventKind = iota
	EventClientLeave
	EventClientMessage
)

// InboundEvent is one of ClientJoin{player_id, sink}, ClientLeave{player_id},
// or ClientMessage{player_id, message} (spec.md §6).
type InboundEvent struct {
	Kind     EventKind
	PlayerID PlayerID
	Sink     Sink          // set for EventClientJoin
	Message  ClientMessage // set for EventClientMessage
}

func ClientJoinEvent(id PlayerID, sink Sink) InboundEvent {
	return InboundEvent{Kind: EventClientJoin, PlayerID: id, Sink: sink}
}

func ClientLeaveEvent(id PlayerID) InboundEvent {
	return InboundEvent{Kind: EventClientLeave, PlayerID: id}
}

func ClientMessageEvent(id PlayerID, msg ClientMessage) InboundEvent {
	return InboundEvent{Kind: EventClientMessage, PlayerID: id, Message: msg}
}

// Client → server command discriminators (spec.md §6). The wire envelope's
// "id" field (present in the original Rust MessageFrame) is carried but
// never interpreted by the core.
const (
	CmdSetPlayerName        = "set_player_name"
	CmdReadyForGame         = "ready_for_game"
	CmdVoteKickPlayer       = "vote_kick_player"
	CmdRevertVoteKickPlayer = "revert_vote_kick_player"
	CmdAnswers              = "answers"
	CmdSetCharacter         = "set_character"
	CmdRejectClue           = "reject_clue"
	CmdOfferChallenge       = "offer_challenge"
	CmdOfferChallengeFinal  = "offer_challenge_final"
	CmdChallengeAccepted    = "challenge_accepted"
	CmdChallengeRejected    = "challenge_rejected"
	CmdUseArtifact          = "use_artifact"
	CmdTakeWound            = "take_wound"
	CmdAcceptFate           = "accept_fate"
)

// ChallengeOffer is the payload of offer_challenge / offer_challenge_final.
type ChallengeOffer struct {
	Target            PlayerID  `json:"target_player_id"`
	Attribute         Attribute `json:"attribute"`
	SpecialityApplies bool      `json:"speciality_applies"`
	ReputationApplies bool      `json:"reputation_applies"`
}

// ClientMessage is the flat envelope every client→server frame decodes
// into; only the fields relevant to Cmd are populated, following the
// same one-struct-many-optional-fields shape Seednode-partybox/celebrity.go
// uses for its ClientMessage type.
type ClientMessage struct {
	ID  uuid.UUID `json:"id,omitempty"`
	Cmd string    `json:"cmd"`

	Name string `json:"name,omitempty"` // set_player_name

	TargetPlayerID PlayerID `json:"target_player_id,omitempty"` // vote_kick_player / revert_vote_kick_player

	Answers []string `json:"answers,omitempty"` // answers

	Stats *PlayerStats `json:"stats,omitempty"` // set_character

	Challenge *ChallengeOffer `json:"challenge,omitempty"` // offer_challenge / offer_challenge_final
	ClueIdx   int             `json:"clue_idx,omitempty"`  // offer_challenge_final
}

// --- Server → client message types ---
//
// Each is its own Go type carrying a fixed Cmd value, mirroring the
// teacher's one-struct-per-message-type wire shapes (CelebrityListMessage,
// SessionInfoMessage, GameStateMessage, ...). Sinks receive `any` and the
// transport layer's JSON codec marshals whichever concrete type was sent.

type GameIsFullMessage struct {
	Cmd string `json:"cmd"`
}

func NewGameIsFullMessage() GameIsFullMessage {
	return GameIsFullMessage{Cmd: "game_is_full"}
}

type GameIsOngoingMessage struct {
	Cmd string `json:"cmd"`
}

func NewGameIsOngoingMessage() GameIsOngoingMessage {
	return GameIsOngoingMessage{Cmd: "game_is_ongoing"}
}

// ClueView is a (question, answer) pair as shown to clients.
type ClueView struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ChallengeView is the public shape of an active challenge.
type ChallengeView struct {
	Target            PlayerID  `json:"target_player_id"`
	Attribute         Attribute `json:"attribute"`
	SpecialityApplies bool      `json:"speciality_applies"`
	ReputationApplies bool      `json:"reputation_applies"`
}

// GameStateView is the phase tag plus its phase-local public fields,
// embedded in every PushStateMessage (spec.md §3 "phase" field, §4.11).
type GameStateView struct {
	Phase string `json:"phase"`

	// Room / FinalBattle
	RoomIndex       *int           `json:"room_index,omitempty"`
	GM              *PlayerID      `json:"gm,omitempty"`
	GMs             []PlayerID     `json:"gms,omitempty"`
	Successes       *int           `json:"successes,omitempty"`
	Failures        *int           `json:"failures,omitempty"`
	Challenge       *ChallengeView `json:"challenge,omitempty"`
	ChosenClueIdx   *int           `json:"chosen_clue_idx,omitempty"`
	TargetSuccesses *int           `json:"target_successes,omitempty"`
	RemainingClues  *int           `json:"remaining_clues,omitempty"`
}

// PushStateMessage is the full-state snapshot (spec.md §6).
type PushStateMessage struct {
	Cmd             string                 `json:"cmd"`
	Players         map[PlayerID]Player    `json:"players"`
	GameState       GameStateView          `json:"game_state"`
	PlayerKickVotes map[PlayerID][]PlayerID `json:"player_kick_votes"`
	KnownClues      []ClueView             `json:"known_clues"`
}

// QuestionEntry is one assigned worldbuilding question, with the player's
// current (possibly empty) answer.
type QuestionEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer,omitempty"`
}

type QuestionsMessage struct {
	Cmd       string          `json:"cmd"`
	Questions []QuestionEntry `json:"questions"`
}

func NewQuestionsMessage(entries []QuestionEntry) QuestionsMessage {
	return QuestionsMessage{Cmd: "questions", Questions: entries}
}

type PushClueMessage struct {
	Cmd  string   `json:"cmd"`
	Clue ClueView `json:"clue"`
}

func NewPushClueMessage(c ClueView) PushClueMessage {
	return PushClueMessage{Cmd: "push_clue", Clue: c}
}

type ClueRejectionRejectedMessage struct {
	Cmd string `json:"cmd"`
}

func NewClueRejectionRejectedMessage() ClueRejectionRejectedMessage {
	return ClueRejectionRejectedMessage{Cmd: "clue_rejection_rejected"}
}

type ReceivedChallengeMessage struct {
	Cmd           string        `json:"cmd"`
	Challenge     ChallengeView `json:"challenge"`
	ChosenClueIdx *int          `json:"chosen_clue_idx,omitempty"`
}

func NewReceivedChallengeMessage(c ChallengeView, chosenClueIdx *int) ReceivedChallengeMessage {
	return ReceivedChallengeMessage{Cmd: "received_challenge", Challenge: c, ChosenClueIdx: chosenClueIdx}
}

type AbortedChallengeMessage struct {
	Cmd string `json:"cmd"`
}

func NewAbortedChallengeMessage() AbortedChallengeMessage {
	return AbortedChallengeMessage{Cmd: "aborted_challenge"}
}

type ChallengeResultMessage struct {
	Cmd            string `json:"cmd"`
	Rolls          []int  `json:"rolls"`
	Success        bool   `json:"success"`
	Possession     bool   `json:"possession"`
	CanUseArtifact bool   `json:"can_use_artifact"`
}

func NewChallengeResultMessage(rolls []int, success, possession, canUseArtifact bool) ChallengeResultMessage {
	return ChallengeResultMessage{
		Cmd:            "challenge_result",
		Rolls:          rolls,
		Success:        success,
		Possession:     possession,
		CanUseArtifact: canUseArtifact,
	}
}

type EndGameMessage struct {
	Cmd string `json:"cmd"`
}

func NewEndGameMessage() EndGameMessage {
	return EndGameMessage{Cmd: "end_game"}
}
