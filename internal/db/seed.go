package db

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// greeting inserted for seeded mutual matches; must stay in sync with the
// discovery service constant.
const seedGreeting = "Hi! We have a match! Let's start chatting! (Automatic message)"

// SeedTestData resets the database and populates it with demo profiles.
//
// Behavior:
//  1. Clears users, questions, options, likes, dislikes and messages.
//  2. Creates 20 users (10 male, 10 female) with hashed passwords,
//     complete profiles and a 3-question quiz each.
//  3. Generates likes/dislikes across genders with guaranteed mutual pairs,
//     seeding the greeting message for every match.
//
// Compatible with both MySQL and SQLite (AUTO_INCREMENT reset skipped for SQLite).
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, table := range []string{"messages", "likes", "dislikes", "options", "questions", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	switch db.Dialector.Name() {
	case "mysql":
		db.Exec("ALTER TABLE users AUTO_INCREMENT = 1")
		db.Exec("ALTER TABLE questions AUTO_INCREMENT = 1")
		db.Exec("ALTER TABLE options AUTO_INCREMENT = 1")
		db.Exec("ALTER TABLE messages AUTO_INCREMENT = 1")
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence WHERE name IN ('users','questions','options','messages')")
	}

	log.Println("Cleared existing data")

	// --- Seed Users (10 male, 10 female), each with a full profile + quiz ---
	quizzes := [][3]string{
		{"What's my favourite season?", "autumn", "spring,summer,autumn"},
		{"Which pet would I pick?", "dog", "dog,cat,parrot"},
		{"My ideal Sunday?", "hiking", "hiking,netflix,brunch"},
	}

	for i := 1; i <= 20; i++ {
		hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		gender, wants := "male", "female"
		if i > 10 {
			gender, wants = "female", "male"
		}

		user := User{
			Email:         fmt.Sprintf("user%d@example.com", i),
			PasswordHash:  string(hash),
			Name:          fmt.Sprintf("User %d", i),
			Photo:         fmt.Sprintf("seed-%d.jpg", i),
			Age:           21 + r.Intn(20),
			Gender:        gender,
			ShowProfileTo: wants,
			ShowToUser:    wants,
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}

		for _, q := range quizzes {
			question := Question{UserID: user.ID, QuestionText: q[0], CorrectAnswer: q[1]}
			if err := db.Create(&question).Error; err != nil {
				return fmt.Errorf("failed to seed question: %w", err)
			}
			for _, opt := range strings.Split(q[2], ",") {
				if err := db.Create(&Option{QuestionID: question.ID, OptionText: opt}).Error; err != nil {
					return fmt.Errorf("failed to seed option: %w", err)
				}
			}
		}
	}
	log.Println("Seeded 20 users with quizzes.")

	// --- Seed affinity edges across genders, mutual every 3rd pair ---
	var users []User
	if err := db.Order("id").Find(&users).Error; err != nil {
		return err
	}

	counter := 0
	for _, actor := range users {
		for j := 0; j < 8; j++ {
			target := users[r.Intn(len(users))]
			if target.ID == actor.ID || target.Gender == actor.Gender {
				continue
			}

			if r.Intn(100) < 70 {
				like := Like{LikerID: actor.ID, LikedID: target.ID}
				if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
					return fmt.Errorf("failed to seed like: %w", err)
				}

				// guarantee a mutual match every 3rd like, with its greeting
				if counter%3 == 0 {
					recip := Like{LikerID: target.ID, LikedID: actor.ID}
					db.Clauses(clause.OnConflict{DoNothing: true}).Create(&recip)

					var seeded int64
					db.Model(&Message{}).
						Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
							actor.ID, target.ID, target.ID, actor.ID).
						Count(&seeded)
					if seeded == 0 {
						db.Create(&Message{SenderID: target.ID, ReceiverID: actor.ID, MessageText: seedGreeting})
					}
				}
			} else {
				dislike := Dislike{DislikerID: actor.ID, DislikedID: target.ID}
				if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&dislike).Error; err != nil {
					return fmt.Errorf("failed to seed dislike: %w", err)
				}
			}

			counter++
		}
	}

	return nil
}
