package session

// questionBank holds the ten fixed worldbuilding questions assigned during
// DefineEvil, ported verbatim (in content) from
// original_source/tttod_server/src/clues.rs's Question enum Display text.
var questionBank = [10]string{
	"What is the source of my power?",
	"What is my greatest weakness and why?",
	"What do I intend to do with the world once I conquer it?",
	"What created me and how?",
	"How do I defeat my enemies?",
	"What is most terrifying about me and why?",
	"What motivates me and drives me forward?",
	"What kept me sealed away all these years?",
	"What does my true form look like?",
	"What do I promise to tempt others into obeying me?",
}

// Clue is a (question, answer) pair built during DefineEvil (spec.md §3).
type Clue struct {
	Question string
	Answer   string
}

// View converts a Clue to its wire representation.
func (c Clue) View() ClueView {
	return ClueView{Question: c.Question, Answer: c.Answer}
}

// removeClueAt returns clues with the element at idx removed, without
// aliasing the backing array of the input slice.
func removeClueAt(clues []Clue, idx int) []Clue {
	out := make([]Clue, 0, len(clues)-1)
	out = append(out, clues[:idx]...)
	out = append(out, clues[idx+1:]...)
	return out
}
