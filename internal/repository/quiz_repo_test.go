package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elucidate-app/elucidate/internal/db"
	"github.com/elucidate-app/elucidate/internal/repository"
)

func TestReplaceQuiz(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewQuizRepository(gdb)

	seedUser(t, gdb, 1, "ana", "female", "male", "male")

	first := []repository.QuestionInput{
		{Question: "q1", CorrectAnswer: "a", Options: []string{"a", "b"}},
		{Question: "q2", CorrectAnswer: "c", Options: []string{"c", "d", "e"}},
	}
	require.NoError(t, repo.ReplaceQuiz(ctx, 1, first))

	quiz, err := repo.GetQuiz(ctx, 1)
	require.NoError(t, err)
	require.Len(t, quiz, 2)
	assert.Len(t, quiz[0].Options, 2)
	assert.Len(t, quiz[1].Options, 3)

	// replacing swaps the whole quiz, no leftovers from the first set
	second := []repository.QuestionInput{
		{Question: "q3", CorrectAnswer: "x", Options: []string{"x", "y"}},
	}
	require.NoError(t, repo.ReplaceQuiz(ctx, 1, second))

	quiz, err = repo.GetQuiz(ctx, 1)
	require.NoError(t, err)
	require.Len(t, quiz, 1)
	assert.Equal(t, "q3", quiz[0].QuestionText)

	var optionCount int64
	require.NoError(t, gdb.Model(&db.Option{}).Count(&optionCount).Error)
	assert.Equal(t, int64(2), optionCount)
}
