package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/elucidate-app/elucidate/internal/db"
)

// QuizRepository provides data access for a user's unblur quiz.
type QuizRepository struct {
	db *gorm.DB
}

// NewQuizRepository creates a new repository bound to the given DB connection.
func NewQuizRepository(database *gorm.DB) *QuizRepository {
	return &QuizRepository{db: database}
}

// WithTx returns a copy of the repository bound to tx.
func (r *QuizRepository) WithTx(tx *gorm.DB) *QuizRepository {
	return &QuizRepository{db: tx}
}

// QuestionInput is one question as submitted during profile setup.
type QuestionInput struct {
	Question      string   `json:"question"`
	CorrectAnswer string   `json:"correctAnswer"`
	Options       []string `json:"options"`
}

// ReplaceQuiz swaps the user's quiz for the submitted one: existing
// questions and their options are removed, then the new set is inserted.
// Must run inside the profile-setup transaction (via WithTx) so a failure
// at any step leaves the previous quiz intact.
func (r *QuizRepository) ReplaceQuiz(ctx context.Context, userID uint64, questions []QuestionInput) error {
	tx := r.db.WithContext(ctx)

	// drop the previous quiz
	if err := tx.Where("question_id IN (?)",
		tx.Session(&gorm.Session{NewDB: true}).
			Model(&db.Question{}).
			Select("id").
			Where("user_id = ?", userID),
	).Delete(&db.Option{}).Error; err != nil {
		return err
	}
	if err := tx.Where("user_id = ?", userID).Delete(&db.Question{}).Error; err != nil {
		return err
	}

	for _, q := range questions {
		question := db.Question{
			UserID:        userID,
			QuestionText:  q.Question,
			CorrectAnswer: q.CorrectAnswer,
		}
		if err := tx.Create(&question).Error; err != nil {
			return err
		}
		for _, opt := range q.Options {
			option := db.Option{QuestionID: question.ID, OptionText: opt}
			if err := tx.Create(&option).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// GetQuiz returns the user's questions with options, in insertion order.
func (r *QuizRepository) GetQuiz(ctx context.Context, userID uint64) ([]db.Question, error) {
	var questions []db.Question
	err := r.db.WithContext(ctx).
		Preload("Options", func(tx *gorm.DB) *gorm.DB { return tx.Order("options.id") }).
		Where("user_id = ?", userID).
		Order("id").
		Find(&questions).Error
	return questions, err
}
