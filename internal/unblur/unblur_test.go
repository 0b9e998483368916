package unblur_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elucidate-app/elucidate/internal/unblur"
)

func threeQuestions() []unblur.Question {
	return []unblur.Question{
		{Text: "q1", CorrectAnswer: "a", Options: []string{"a", "b"}},
		{Text: "q2", CorrectAnswer: "c", Options: []string{"c", "d"}},
		{Text: "q3", CorrectAnswer: "e", Options: []string{"e", "f"}},
	}
}

func TestBlurRadius(t *testing.T) {
	assert.Equal(t, 20, unblur.BlurRadius(0))
	assert.Equal(t, 14, unblur.BlurRadius(1))
	assert.Equal(t, 8, unblur.BlurRadius(2))
	assert.Equal(t, 0, unblur.BlurRadius(3))
}

func TestAllCorrectUnblursFully(t *testing.T) {
	m := unblur.New(threeQuestions())

	for _, answer := range []string{"a", "c", "e"} {
		correct, ok := m.Answer(answer)
		assert.True(t, ok)
		assert.True(t, correct)
	}

	assert.True(t, m.RatingReady())
	assert.Equal(t, 3, m.CorrectCount())
	assert.Equal(t, 0, m.BlurRadius())
}

func TestWrongAnswersStillAdvance(t *testing.T) {
	m := unblur.New(threeQuestions())

	// wrong answer consumes the attempt and moves to the next question
	correct, ok := m.Answer("b")
	assert.True(t, ok)
	assert.False(t, correct)
	assert.Equal(t, "q2", m.Current().Text)
	assert.Equal(t, 1, m.Attempts())
	assert.Equal(t, 20, m.BlurRadius())

	correct, _ = m.Answer("c")
	assert.True(t, correct)
	assert.Equal(t, 14, m.BlurRadius())

	m.Answer("f")
	assert.True(t, m.RatingReady())
	assert.Equal(t, 1, m.CorrectCount())
	assert.Equal(t, 14, m.BlurRadius())
}

func TestTerminalStateRejectsAnswers(t *testing.T) {
	m := unblur.New(threeQuestions())
	m.Answer("a")
	m.Answer("c")
	m.Answer("e")

	_, ok := m.Answer("a")
	assert.False(t, ok)
	assert.Equal(t, 3, m.Attempts())
}

func TestIndexWrapsWithFewerQuestions(t *testing.T) {
	m := unblur.New([]unblur.Question{
		{Text: "only", CorrectAnswer: "yes", Options: []string{"yes", "no"}},
	})

	m.Answer("yes")
	// cycles back to the same question
	assert.Equal(t, "only", m.Current().Text)
	m.Answer("no")
	m.Answer("yes")

	assert.True(t, m.RatingReady())
	assert.Equal(t, 2, m.CorrectCount())
	assert.Equal(t, 8, m.BlurRadius())
}

func TestEmptyQuizNeverReady(t *testing.T) {
	m := unblur.New(nil)

	_, ok := m.Answer("anything")
	assert.False(t, ok)
	assert.False(t, m.RatingReady())
}
