package chat

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/elucidate-app/elucidate/internal/app"
	"github.com/elucidate-app/elucidate/internal/apperr"
	"github.com/elucidate-app/elucidate/internal/cache"
	"github.com/elucidate-app/elucidate/internal/middleware"
	"github.com/elucidate-app/elucidate/internal/repository"
	"github.com/elucidate-app/elucidate/internal/utils/pagination"
)

// conversationPageSize caps how many threads one request returns; a cursor
// token pages through the rest.
const conversationPageSize = 20

// Service implements the messaging endpoints: sending, conversation threads
// and avatar lookup.
type Service struct {
	appCtx      *app.AppContext
	userRepo    *repository.UserRepository
	messageRepo *repository.MessageRepository
}

// NewChatService creates the chat service with dependencies from AppContext.
func NewChatService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		userRepo:    repository.NewUserRepository(appCtx.DB),
		messageRepo: repository.NewMessageRepository(appCtx.DB),
	}
}

type sendMessageRequest struct {
	ReceiverID  uint64 `json:"receiverId"`
	MessageText string `json:"messageText"`
}

// SendMessage appends a message from the session user to the receiver.
//
// Behavior:
//   - 400 when the receiver is missing or the text is empty/blank;
//     nothing is inserted.
//   - 404 when the receiver does not exist.
//   - 201 with the created row.
func (s *Service) SendMessage(c *gin.Context) {
	senderID, ok := middleware.UserID(c)
	if !ok {
		apperr.Respond(c, s.appCtx.Logger, apperr.Unauthorized("authentication required"))
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ReceiverID == 0 ||
		strings.TrimSpace(req.MessageText) == "" {
		apperr.Respond(c, s.appCtx.Logger, apperr.Validation("receiverId and messageText are required"))
		return
	}

	ctx := c.Request.Context()
	if exists, err := s.userRepo.Exists(ctx, req.ReceiverID); err != nil {
		apperr.Respond(c, s.appCtx.Logger, err)
		return
	} else if !exists {
		apperr.Respond(c, s.appCtx.Logger, apperr.NotFound("receiver not found"))
		return
	}

	msg, err := s.messageRepo.Create(ctx, senderID, req.ReceiverID, req.MessageText)
	if err != nil {
		apperr.Respond(c, s.appCtx.Logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Message sent successfully",
		"messageDetails": gin.H{
			"message_id": msg.ID,
			"created_at": msg.CreatedAt,
		},
	})
}

// GetConversations returns the session user's threads grouped by
// counterpart, each with its full ordered message list. Paginated over
// threads with an opaque cursor token.
func (s *Service) GetConversations(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		apperr.Respond(c, s.appCtx.Logger, apperr.Unauthorized("authentication required"))
		return
	}

	var token *string
	if v := c.Query("paginationToken"); v != "" {
		if _, err := pagination.Decode(v); err != nil {
			apperr.Respond(c, s.appCtx.Logger, apperr.Validation("invalid pagination token"))
			return
		}
		token = &v
	}

	conversations, next, err := s.messageRepo.ListConversations(
		c.Request.Context(), userID, token, conversationPageSize)
	if err != nil {
		apperr.Respond(c, s.appCtx.Logger, err)
		return
	}

	resp := gin.H{"conversations": conversations}
	if next != nil {
		resp["nextPaginationToken"] = *next
	}
	c.JSON(http.StatusOK, resp)
}

// GetUserAvatar returns the photo reference for a user, cache-first.
func (s *Service) GetUserAvatar(c *gin.Context) {
	userIDStr := c.Query("userId")
	userID, err := strconv.ParseUint(userIDStr, 10, 64)
	if err != nil || userID == 0 {
		apperr.Respond(c, s.appCtx.Logger, apperr.Validation("userId is required"))
		return
	}

	ctx := c.Request.Context()
	key := s.appCtx.RedisCache.KeyForAvatar(userID)
	if photo, err := s.appCtx.RedisCache.Get(ctx, key); err == nil {
		c.JSON(http.StatusOK, gin.H{"photo": photo})
		return
	} else if !errors.Is(err, redis.Nil) {
		s.appCtx.Logger.Warn("avatar cache read failed", "err", err)
	}

	photo, err := s.userRepo.GetAvatar(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperr.Respond(c, s.appCtx.Logger, apperr.NotFound("user not found"))
			return
		}
		apperr.Respond(c, s.appCtx.Logger, err)
		return
	}
	_ = s.appCtx.RedisCache.Set(ctx, key, photo, cache.AvatarTTL)

	c.JSON(http.StatusOK, gin.H{"photo": photo})
}
