package repository

import (
	"context"
)

// CandidateOption is one answer choice shown on a feed card.
type CandidateOption struct {
	ID     uint64 `json:"id"`
	Option string `json:"option"`
}

// CandidateQuestion is one quiz question with its options.
type CandidateQuestion struct {
	ID            uint64            `json:"id"`
	Question      string            `json:"question"`
	CorrectAnswer string            `json:"correctAnswer"`
	Options       []CandidateOption `json:"options"`
}

// CandidateProfile is one feed entry: a user with their full nested quiz.
type CandidateProfile struct {
	ID            uint64              `json:"id"`
	Name          string              `json:"name"`
	Photo         string              `json:"photo"`
	Gender        string              `json:"gender"`
	ShowProfileTo string              `json:"showUserProfileTo"`
	Questions     []CandidateQuestion `json:"questions"`
}

// candidateRow is the flat shape of the feed join before aggregation.
type candidateRow struct {
	UserID        uint64 `gorm:"column:user_id"`
	Name          string `gorm:"column:name"`
	Photo         string `gorm:"column:photo"`
	Gender        string `gorm:"column:gender"`
	ShowProfileTo string `gorm:"column:show_profile_to"`
	QuestionID    uint64 `gorm:"column:question_id"`
	QuestionText  string `gorm:"column:question_text"`
	CorrectAnswer string `gorm:"column:correct_answer"`
	OptionID      uint64 `gorm:"column:option_id"`
	OptionText    string `gorm:"column:option_text"`
}

// ListCandidates returns the feed for a viewer: every profile that
//   - is not the viewer,
//   - has the gender the viewer wants to see,
//   - wants to be shown to the viewer's gender,
//   - the viewer has not yet liked or disliked,
//
// each joined with its complete quiz. The inner joins mean users without a
// finished profile never enter the feed.
func (r *AffinityRepository) ListCandidates(ctx context.Context, viewerID uint64, viewerGender, wantsGender string) ([]CandidateProfile, error) {
	var rows []candidateRow
	err := r.db.WithContext(ctx).
		Table("users u").
		Select(`u.id AS user_id, u.name, u.photo, u.gender, u.show_profile_to,
			q.id AS question_id, q.question_text, q.correct_answer,
			o.id AS option_id, o.option_text`).
		Joins("INNER JOIN questions q ON q.user_id = u.id").
		Joins("INNER JOIN options o ON o.question_id = q.id").
		Where("u.id != ?", viewerID).
		Where("u.gender = ?", wantsGender).
		Where("u.show_profile_to = ?", viewerGender).
		Where(`u.id NOT IN (
			SELECT liked_id FROM likes WHERE liker_id = ?
			UNION
			SELECT disliked_id FROM dislikes WHERE disliker_id = ?
		)`, viewerID, viewerID).
		Order("u.id, q.id, o.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return groupCandidateRows(rows), nil
}

// groupCandidateRows folds flat join rows into nested user -> question ->
// option profiles. Pure aggregation keyed by (user id, question id):
// questions are deduplicated, options accumulate in encounter order.
func groupCandidateRows(rows []candidateRow) []CandidateProfile {
	profiles := make([]CandidateProfile, 0)
	userIdx := make(map[uint64]int)
	questionIdx := make(map[uint64]map[uint64]int)

	for _, row := range rows {
		ui, ok := userIdx[row.UserID]
		if !ok {
			ui = len(profiles)
			userIdx[row.UserID] = ui
			questionIdx[row.UserID] = make(map[uint64]int)
			profiles = append(profiles, CandidateProfile{
				ID:            row.UserID,
				Name:          row.Name,
				Photo:         row.Photo,
				Gender:        row.Gender,
				ShowProfileTo: row.ShowProfileTo,
				Questions:     []CandidateQuestion{},
			})
		}

		qi, ok := questionIdx[row.UserID][row.QuestionID]
		if !ok {
			qi = len(profiles[ui].Questions)
			questionIdx[row.UserID][row.QuestionID] = qi
			profiles[ui].Questions = append(profiles[ui].Questions, CandidateQuestion{
				ID:            row.QuestionID,
				Question:      row.QuestionText,
				CorrectAnswer: row.CorrectAnswer,
				Options:       []CandidateOption{},
			})
		}

		profiles[ui].Questions[qi].Options = append(profiles[ui].Questions[qi].Options, CandidateOption{
			ID:     row.OptionID,
			Option: row.OptionText,
		})
	}

	return profiles
}
