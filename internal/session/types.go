// Package session implements the per-game session coordinator: the
// in-memory state machine that owns authoritative game state, multiplexes
// client transports per player, enforces phase- and role-specific message
// validity, resolves dice-based challenges, advances phases, handles kick
// voting, and keeps reconnecting clients in sync via full-state snapshots.
//
// The package knows nothing about websockets, JSON framing, HTTP routing,
// or configuration loading; callers feed it InboundEvents and receive
// ServerMessages through Sinks (see message.go).
package session

import "github.com/google/uuid"

// PlayerID is the opaque 128-bit identifier a connecting client provides.
type PlayerID = uuid.UUID

// Game-wide constants fixed by the specification.
const (
	MinPlayers = 3
	MaxPlayers = 5

	QuestionsPerPlayer = 2

	RoomSuccessesNeeded = 3
	RoomFailuresNeeded  = 3
)

// FinalBattleTarget returns the number of successes needed to win the
// final battle: ceil(playerCount / 2).
func FinalBattleTarget(playerCount int) int {
	return (playerCount + 1) / 2
}

// Condition tracks a player's physical state. Transitions are monotone and
// saturate at Dead (original_source/tttod_data/src/player.rs:
// Condition::take_hit never panics past the terminal state).
type Condition string

const (
	ConditionHale     Condition = "hale"
	ConditionWounded  Condition = "wounded"
	ConditionCritical Condition = "critical"
	ConditionDead     Condition = "dead"
)

// Degrade moves the condition one step toward Dead, saturating there.
func (c Condition) Degrade() Condition {
	switch c {
	case ConditionHale:
		return ConditionWounded
	case ConditionWounded:
		return ConditionCritical
	default:
		return ConditionDead
	}
}

func (c Condition) IsDeadOrWorse() bool {
	return c == ConditionDead
}

// MentalCondition tracks possession progress. Transitions are monotone and
// saturate at Possessed.
type MentalCondition string

const (
	MentalHale      MentalCondition = "hale"
	MentalResisted  MentalCondition = "resisted"
	MentalPossessed MentalCondition = "possessed"
)

// Degrade moves the mental condition one step toward Possessed, saturating
// there.
func (m MentalCondition) Degrade() MentalCondition {
	switch m {
	case MentalHale:
		return MentalResisted
	default:
		return MentalPossessed
	}
}

func (m MentalCondition) IsPossessed() bool {
	return m == MentalPossessed
}

// ArtifactBoon is the one-shot power granted by a player's artifact.
type ArtifactBoon string

const (
	BoonReroll           ArtifactBoon = "reroll"
	BoonRollWithPlusTwo  ArtifactBoon = "roll_with_plus_two"
	BoonSuccessOnFive    ArtifactBoon = "success_on_five"
	BoonSuccessOnDoubles ArtifactBoon = "success_on_doubles"
)

// Attribute is one of the three character stats a challenge is rolled
// against.
type Attribute string

const (
	AttributeHeroic     Attribute = "heroic"
	AttributeBooksmart  Attribute = "booksmart"
	AttributeStreetwise Attribute = "streetwise"
)

// Speciality is a free-string field: a fixed enumerated set of canonical
// values, or any other free-form value standing in for Rust's
// Speciality::Other(String).
type Speciality string

const (
	SpecialityReligion           Speciality = "religion"
	SpecialityLinguistics        Speciality = "linguistics"
	SpecialityArchitecture       Speciality = "architecture"
	SpecialityWarAndWeaponry     Speciality = "war_and_weaponry"
	SpecialityGemsAndMetals      Speciality = "gems_and_metals"
	SpecialitySecretSignsSymbols Speciality = "secret_signs_symbols"
	SpecialityOsteology          Speciality = "osteology"
	SpecialityDeathAndBurial     Speciality = "death_and_burial"
)

// Reputation is a free-string field analogous to Speciality.
type Reputation string

const (
	ReputationAmbitious    Reputation = "ambitious"
	ReputationGenius       Reputation = "genius"
	ReputationRuthless     Reputation = "ruthless"
	ReputationSenile       Reputation = "senile"
	ReputationMadScientist Reputation = "mad_scientist"
	ReputationBornLeader   Reputation = "born_leader"
	ReputationRulebreaker  Reputation = "rulebreaker"
	ReputationObsessive    Reputation = "obsessive"
)

// PlayerStats is set once during CharacterCreation; until then a Player's
// Stats is nil. DefaultPlayerStats mirrors
// original_source/tttod_data/src/player.rs's Default impl for PlayerStats.
type PlayerStats struct {
	Name           string            `json:"name"`
	Speciality     Speciality        `json:"speciality"`
	Reputation     Reputation        `json:"reputation"`
	Attributes     map[Attribute]int `json:"attributes"`
	ArtifactName   string            `json:"artifact_name"`
	ArtifactOrigin string            `json:"artifact_origin"`
	ArtifactBoon   ArtifactBoon      `json:"artifact_boon"`
}

// DefaultPlayerStats returns a stats block with internally-consistent
// attributes (summing to 5) and default enum values. Its name and artifact
// fields are empty, so it does not pass IsReady until those are filled in.
// NewPlayer does not use it; a fresh Player has nil Stats.
func DefaultPlayerStats() PlayerStats {
	return PlayerStats{
		Speciality: SpecialityReligion,
		Reputation: ReputationAmbitious,
		Attributes: map[Attribute]int{
			AttributeHeroic:     3,
			AttributeBooksmart:  1,
			AttributeStreetwise: 1,
		},
		ArtifactBoon: BoonReroll,
	}
}

// IsReady reports whether s satisfies the CharacterCreation readiness
// predicate (spec.md §4.4): non-empty name/artifact fields, each attribute
// >= 1, attributes summing to 5.
func (s PlayerStats) IsReady() bool {
	if s.Name == "" || s.ArtifactName == "" || s.ArtifactOrigin == "" {
		return false
	}
	sum := 0
	for _, attr := range [...]Attribute{AttributeHeroic, AttributeBooksmart, AttributeStreetwise} {
		v, ok := s.Attributes[attr]
		if !ok || v < 1 {
			return false
		}
		sum += v
	}
	return sum == 5
}

// Player is the per-player record held by a session (spec.md §3).
type Player struct {
	Name            string          `json:"name"`
	Ready           bool            `json:"ready"`
	Stats           *PlayerStats    `json:"stats,omitempty"`
	Condition       Condition       `json:"condition"`
	MentalCondition MentalCondition `json:"mental_condition"`
	ArtifactUsed    bool            `json:"artifact_used"`
}

// NewPlayer returns a freshly joined player's record: empty name, not
// ready, Hale/Hale, artifact unused.
func NewPlayer() Player {
	return Player{
		Condition:       ConditionHale,
		MentalCondition: MentalHale,
	}
}

// IsActive reports whether the player is still able to participate (not
// Dead and not Possessed).
func (p Player) IsActive() bool {
	return p.Condition != ConditionDead && !p.MentalCondition.IsPossessed()
}
