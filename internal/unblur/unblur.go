// Package unblur implements the per-card quiz state that gates rating a
// profile: three answer attempts, each correct answer sharpening the photo,
// with like/dislike available only once the attempts are spent.
package unblur

// MaxAttempts is how many answers a viewer gets per profile card.
const MaxAttempts = 3

// maxBlur is the starting blur radius in pixels; each correct answer
// removes blurStep of it.
const (
	maxBlur  = 20
	blurStep = 6
)

// Question is the minimal view of a quiz question the machine needs.
type Question struct {
	Text          string
	CorrectAnswer string
	Options       []string
}

// Machine tracks quiz progress for one profile card.
type Machine struct {
	questions    []Question
	questionIdx  int
	attempts     int
	correctCount int
}

// New creates a machine over the profile's questions.
func New(questions []Question) *Machine {
	return &Machine{questions: questions}
}

// Answer submits an option for the current question.
//
// Regardless of correctness the question index advances cyclically and an
// attempt is consumed. Returns whether the answer was correct; in the
// terminal state the call is rejected.
func (m *Machine) Answer(option string) (correct bool, ok bool) {
	if m.RatingReady() || len(m.questions) == 0 {
		return false, false
	}

	correct = option == m.questions[m.questionIdx].CorrectAnswer
	if correct && m.correctCount < MaxAttempts {
		m.correctCount++
	}

	m.questionIdx = (m.questionIdx + 1) % len(m.questions)
	m.attempts++
	return correct, true
}

// RatingReady reports whether the machine is terminal: all attempts spent,
// the like/dislike action unlocked.
func (m *Machine) RatingReady() bool {
	return m.attempts >= MaxAttempts
}

// Current returns the question awaiting an answer.
func (m *Machine) Current() Question {
	if len(m.questions) == 0 {
		return Question{}
	}
	return m.questions[m.questionIdx]
}

// Attempts returns how many answers have been submitted.
func (m *Machine) Attempts() int { return m.attempts }

// CorrectCount returns how many answers were correct, capped at MaxAttempts.
func (m *Machine) CorrectCount() int { return m.correctCount }

// BlurRadius is a pure function of the correct count: fully sharp at three
// correct answers, otherwise max(0, 20 - 6*correct) pixels.
func (m *Machine) BlurRadius() int {
	return BlurRadius(m.correctCount)
}

// BlurRadius computes the photo blur in pixels for a given correct count.
func BlurRadius(correctCount int) int {
	if correctCount >= MaxAttempts {
		return 0
	}
	blur := maxBlur - blurStep*correctCount
	if blur < 0 {
		return 0
	}
	return blur
}
