package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/elucidate-app/elucidate/internal/db"
	"github.com/elucidate-app/elucidate/internal/repository"
)

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := database.AutoMigrate(&db.User{}, &db.Question{}, &db.Option{}, &db.Like{}, &db.Dislike{}, &db.Message{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

func seedUser(t *testing.T, gdb *gorm.DB, id uint64, name, gender, showTo, wants string) {
	t.Helper()
	user := db.User{
		ID:            id,
		Email:         name + "@test.com",
		PasswordHash:  "x",
		Name:          name,
		Photo:         name + ".jpg",
		Age:           30,
		Gender:        gender,
		ShowProfileTo: showTo,
		ShowToUser:    wants,
	}
	require.NoError(t, gdb.Create(&user).Error)
}

func seedQuiz(t *testing.T, gdb *gorm.DB, userID uint64, questions int, options int) {
	t.Helper()
	for i := 0; i < questions; i++ {
		q := db.Question{UserID: userID, QuestionText: "q", CorrectAnswer: "a"}
		require.NoError(t, gdb.Create(&q).Error)
		for j := 0; j < options; j++ {
			require.NoError(t, gdb.Create(&db.Option{QuestionID: q.ID, OptionText: "o"}).Error)
		}
	}
}

func TestRecordLikeDeduplicates(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewAffinityRepository(gdb)

	created, err := repo.RecordLike(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, created)

	// second like is a no-op
	created, err = repo.RecordLike(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, created)

	var count int64
	require.NoError(t, gdb.Model(&db.Like{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestIsMutualMatch(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewAffinityRepository(gdb)

	// no edges
	mutual, err := repo.IsMutualMatch(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, mutual)

	// one direction only
	_, err = repo.RecordLike(ctx, 1, 2)
	require.NoError(t, err)
	mutual, err = repo.IsMutualMatch(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, mutual)

	// reciprocal edge flips the result
	_, err = repo.RecordLike(ctx, 2, 1)
	require.NoError(t, err)
	mutual, err = repo.IsMutualMatch(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, mutual)

	// symmetric
	mutual, err = repo.IsMutualMatch(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, mutual)
}

func TestListMatches(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewAffinityRepository(gdb)

	seedUser(t, gdb, 1, "ana", "female", "male", "male")
	seedUser(t, gdb, 2, "bob", "male", "female", "female")
	seedUser(t, gdb, 3, "cem", "male", "female", "female")

	// 1 <-> 2 mutual, 1 -> 3 one-way
	_, _ = repo.RecordLike(ctx, 1, 2)
	_, _ = repo.RecordLike(ctx, 2, 1)
	_, _ = repo.RecordLike(ctx, 1, 3)

	matches, err := repo.ListMatches(ctx, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, uint64(2), matches[0].UserID)
	assert.Equal(t, "bob", matches[0].Name)
	assert.Equal(t, "bob.jpg", matches[0].AvatarURL)
	assert.Equal(t, "1-2", matches[0].MatchID)

	// one-way like does not show up for the counterpart either
	matches, err = repo.ListMatches(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, matches, 0)
}

func TestCountLikers(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewAffinityRepository(gdb)

	_, _ = repo.RecordLike(ctx, 2, 1)
	_, _ = repo.RecordLike(ctx, 3, 1)
	_, _ = repo.RecordLike(ctx, 1, 2)

	count, err := repo.CountLikers(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestListCandidatesFilters(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewAffinityRepository(gdb)

	// viewer: male, wants female, shown to female
	seedUser(t, gdb, 1, "viewer", "male", "female", "female")
	// eligible candidate
	seedUser(t, gdb, 2, "eligible", "female", "male", "male")
	seedQuiz(t, gdb, 2, 1, 2)
	// wrong gender
	seedUser(t, gdb, 3, "wronggender", "male", "female", "female")
	seedQuiz(t, gdb, 3, 1, 2)
	// right gender but hides from males
	seedUser(t, gdb, 4, "hidden", "female", "female", "male")
	seedQuiz(t, gdb, 4, 1, 2)
	// already liked
	seedUser(t, gdb, 5, "liked", "female", "male", "male")
	seedQuiz(t, gdb, 5, 1, 2)
	// already disliked
	seedUser(t, gdb, 6, "disliked", "female", "male", "male")
	seedQuiz(t, gdb, 6, 1, 2)
	// eligible but no quiz → excluded by the inner join
	seedUser(t, gdb, 7, "noquiz", "female", "male", "male")

	_, _ = repo.RecordLike(ctx, 1, 5)
	_, _ = repo.RecordDislike(ctx, 1, 6)

	candidates, err := repo.ListCandidates(ctx, 1, "male", "female")
	require.NoError(t, err)

	require.Len(t, candidates, 1)
	assert.Equal(t, uint64(2), candidates[0].ID)
	for _, c := range candidates {
		assert.NotEqual(t, uint64(1), c.ID)
	}
}

func TestListCandidatesNestedGrouping(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewAffinityRepository(gdb)

	seedUser(t, gdb, 1, "viewer", "male", "female", "female")
	seedUser(t, gdb, 2, "candidate", "female", "male", "male")

	q1 := db.Question{UserID: 2, QuestionText: "favourite colour?", CorrectAnswer: "green"}
	require.NoError(t, gdb.Create(&q1).Error)
	require.NoError(t, gdb.Create(&db.Option{QuestionID: q1.ID, OptionText: "green"}).Error)
	require.NoError(t, gdb.Create(&db.Option{QuestionID: q1.ID, OptionText: "blue"}).Error)
	require.NoError(t, gdb.Create(&db.Option{QuestionID: q1.ID, OptionText: "red"}).Error)

	q2 := db.Question{UserID: 2, QuestionText: "morning person?", CorrectAnswer: "no"}
	require.NoError(t, gdb.Create(&q2).Error)
	require.NoError(t, gdb.Create(&db.Option{QuestionID: q2.ID, OptionText: "yes"}).Error)
	require.NoError(t, gdb.Create(&db.Option{QuestionID: q2.ID, OptionText: "no"}).Error)

	candidates, err := repo.ListCandidates(ctx, 1, "male", "female")
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	profile := candidates[0]
	require.Len(t, profile.Questions, 2)

	assert.Equal(t, "favourite colour?", profile.Questions[0].Question)
	assert.Equal(t, "green", profile.Questions[0].CorrectAnswer)
	require.Len(t, profile.Questions[0].Options, 3)
	assert.Equal(t, "green", profile.Questions[0].Options[0].Option)
	assert.Equal(t, "blue", profile.Questions[0].Options[1].Option)
	assert.Equal(t, "red", profile.Questions[0].Options[2].Option)

	assert.Equal(t, "morning person?", profile.Questions[1].Question)
	require.Len(t, profile.Questions[1].Options, 2)
}
