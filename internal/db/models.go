package db

import (
	"time"
)

// User table. Profile fields stay empty until profile setup completes.
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Name         string `gorm:"size:64"`
	Photo        string `gorm:"size:255"`
	Age          int
	Gender       string `gorm:"size:16"`
	// ShowProfileTo is the gender allowed to see this user's profile.
	// ShowToUser is the gender this user wants to see in their feed.
	ShowProfileTo string     `gorm:"size:16"`
	ShowToUser    string     `gorm:"size:16"`
	Questions     []Question `gorm:"foreignKey:UserID"`
	CreatedAt     time.Time  `gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime"`
}

// Question is one entry of a user's unblur quiz.
type Question struct {
	ID            uint64   `gorm:"primaryKey;autoIncrement"`
	UserID        uint64   `gorm:"not null;index"`
	QuestionText  string   `gorm:"type:text;not null"`
	CorrectAnswer string   `gorm:"size:255;not null"`
	Options       []Option `gorm:"foreignKey:QuestionID"`
}

type Option struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	QuestionID uint64 `gorm:"not null;index"`
	OptionText string `gorm:"size:255;not null"`
}

// Like is a directed positive affinity edge.
//
// Composite PK: (LikerID, LikedID)
//   - Guarantees at most one edge per direction, which keeps mutual-match
//     detection an existence check rather than a fragile row count.
//
// Index:
//   - idx_liked_liker(liked_id, liker_id)
//     Optimizes reciprocal lookups and "who likes me" counts.
type Like struct {
	LikerID   uint64    `gorm:"primaryKey"`
	LikedID   uint64    `gorm:"primaryKey;index:idx_liked_liker,priority:1"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Dislike is a directed negative affinity edge. Same PK scheme as Like.
type Dislike struct {
	DislikerID uint64    `gorm:"primaryKey"`
	DislikedID uint64    `gorm:"primaryKey;index:idx_disliked_disliker,priority:1"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// Message is an immutable row in a pairwise conversation.
type Message struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	SenderID    uint64    `gorm:"not null;index:idx_sender_receiver,priority:1"`
	ReceiverID  uint64    `gorm:"not null;index:idx_sender_receiver,priority:2;index"`
	MessageText string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}
