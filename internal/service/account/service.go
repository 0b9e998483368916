package account

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/elucidate-app/elucidate/internal/app"
	"github.com/elucidate-app/elucidate/internal/apperr"
	"github.com/elucidate-app/elucidate/internal/middleware"
	"github.com/elucidate-app/elucidate/internal/repository"
)

// Service implements the account endpoints: signup, login, session
// management and profile setup with the unblur quiz.
type Service struct {
	appCtx   *app.AppContext
	userRepo *repository.UserRepository
	quizRepo *repository.QuizRepository
}

// NewAccountService creates the account service with dependencies from AppContext.
func NewAccountService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		userRepo: repository.NewUserRepository(appCtx.DB),
		quizRepo: repository.NewQuizRepository(appCtx.DB),
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers a new user from email + password and opens a session.
//
// Behavior:
//   - 400 when either field is missing.
//   - 409 when the email is already registered.
//   - 201 with the created user and the session cookie set.
func (s *Service) Signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		apperr.Respond(c, s.appCtx.Logger, apperr.Validation("email and password are required"))
		return
	}

	ctx := c.Request.Context()
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		apperr.Respond(c, s.appCtx.Logger, err)
		return
	}
	if exists {
		apperr.Respond(c, s.appCtx.Logger, apperr.Conflict("user already exists"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		apperr.Respond(c, s.appCtx.Logger, err)
		return
	}

	user, err := s.userRepo.Create(ctx, req.Email, string(hash))
	if err != nil {
		apperr.Respond(c, s.appCtx.Logger, err)
		return
	}

	if err := s.appCtx.Sessions.Issue(c, user.ID); err != nil {
		apperr.Respond(c, s.appCtx.Logger, err)
		return
	}

	s.appCtx.Logger.Info("user signed up", "user_id", user.ID)
	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    gin.H{"id": user.ID, "email": user.Email},
	})
}

// Login verifies credentials and opens a session.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		apperr.Respond(c, s.appCtx.Logger, apperr.Validation("email and password are required"))
		return
	}

	user, err := s.userRepo.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperr.Respond(c, s.appCtx.Logger, apperr.Unauthorized("invalid email or password"))
			return
		}
		apperr.Respond(c, s.appCtx.Logger, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		apperr.Respond(c, s.appCtx.Logger, apperr.Unauthorized("invalid email or password"))
		return
	}

	if err := s.appCtx.Sessions.Issue(c, user.ID); err != nil {
		apperr.Respond(c, s.appCtx.Logger, err)
		return
	}

	s.appCtx.Logger.Info("user logged in", "user_id", user.ID)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    gin.H{"email": user.Email},
	})
}

// Logout clears the session cookie. Idempotent.
func (s *Service) Logout(c *gin.Context) {
	s.appCtx.Sessions.Clear(c)
	c.JSON(http.StatusOK, gin.H{"message": "Session deleted"})
}

// CurrentUser returns the verified session payload.
func (s *Service) CurrentUser(c *gin.Context) {
	payload, err := s.appCtx.Sessions.FromRequest(c)
	if err != nil {
		apperr.Respond(c, s.appCtx.Logger, apperr.Unauthorized("invalid or missing session"))
		return
	}
	c.JSON(http.StatusOK, payload)
}

// ProfileSetup completes a profile: photo upload, profile attributes and
// the unblur quiz, written as one all-or-nothing unit.
//
// Behavior:
//   - Multipart form: name, age, gender, showUserProfileTo, showToUser,
//     questions (JSON array), file.
//   - The acting user comes from the session, never the form.
//   - The photo is written first under a uuid name; the DB transaction
//     (profile update + quiz replace) follows. On rollback the orphaned
//     file is removed.
func (s *Service) ProfileSetup(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		apperr.Respond(c, s.appCtx.Logger, apperr.Unauthorized("authentication required"))
		return
	}

	name := c.PostForm("name")
	ageStr := c.PostForm("age")
	gender := c.PostForm("gender")
	showProfileTo := c.PostForm("showUserProfileTo")
	showToUser := c.PostForm("showToUser")
	questionsJSON := c.PostForm("questions")

	file, err := c.FormFile("file")
	if name == "" || ageStr == "" || gender == "" || showProfileTo == "" ||
		showToUser == "" || questionsJSON == "" || err != nil {
		apperr.Respond(c, s.appCtx.Logger, apperr.Validation(
			"name, photo, age, gender, preferences, and questions are required"))
		return
	}

	age, err := strconv.Atoi(ageStr)
	if err != nil || age <= 0 {
		apperr.Respond(c, s.appCtx.Logger, apperr.Validation("age must be a positive number"))
		return
	}

	var questions []repository.QuestionInput
	if err := json.Unmarshal([]byte(questionsJSON), &questions); err != nil {
		apperr.Respond(c, s.appCtx.Logger, apperr.Validation("invalid questions format"))
		return
	}
	for _, q := range questions {
		if q.Question == "" || q.CorrectAnswer == "" || len(q.Options) == 0 {
			apperr.Respond(c, s.appCtx.Logger, apperr.Validation(
				"each question needs text, a correct answer and options"))
			return
		}
	}

	ctx := c.Request.Context()
	if exists, err := s.userRepo.Exists(ctx, userID); err != nil {
		apperr.Respond(c, s.appCtx.Logger, err)
		return
	} else if !exists {
		apperr.Respond(c, s.appCtx.Logger, apperr.NotFound("user does not exist"))
		return
	}

	uploadDir := s.appCtx.Config.Uploads.Dir
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		apperr.Respond(c, s.appCtx.Logger, err)
		return
	}
	photoName := uuid.NewString() + "-" + filepath.Base(file.Filename)
	photoPath := filepath.Join(uploadDir, photoName)
	if err := c.SaveUploadedFile(file, photoPath); err != nil {
		apperr.Respond(c, s.appCtx.Logger, err)
		return
	}

	err = s.appCtx.DB.Transaction(func(tx *gorm.DB) error {
		update := repository.ProfileUpdate{
			Name:          name,
			Photo:         photoName,
			Age:           age,
			Gender:        gender,
			ShowProfileTo: showProfileTo,
			ShowToUser:    showToUser,
		}
		if err := s.userRepo.WithTx(tx).UpdateProfile(ctx, userID, update); err != nil {
			return err
		}
		return s.quizRepo.WithTx(tx).ReplaceQuiz(ctx, userID, questions)
	})
	if err != nil {
		_ = os.Remove(photoPath)
		apperr.Respond(c, s.appCtx.Logger, err)
		return
	}

	// the avatar changed, drop the stale cache entry
	_ = s.appCtx.RedisCache.Del(ctx, s.appCtx.RedisCache.KeyForAvatar(userID))

	s.appCtx.Logger.Info("profile setup complete", "user_id", userID, "questions", len(questions))
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated and questions added successfully"})
}
