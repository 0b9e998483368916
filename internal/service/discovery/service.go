package discovery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/elucidate-app/elucidate/internal/app"
	"github.com/elucidate-app/elucidate/internal/apperr"
	"github.com/elucidate-app/elucidate/internal/cache"
	"github.com/elucidate-app/elucidate/internal/middleware"
	"github.com/elucidate-app/elucidate/internal/repository"
)

// MatchGreeting is the system-authored message seeded into a conversation
// the moment a mutual match forms.
const MatchGreeting = "Hi! We have a match! Let's start chatting! (Automatic message)"

// Service implements the discovery endpoints: candidate feed, like/dislike,
// mutual-match checks and the match list.
type Service struct {
	appCtx       *app.AppContext
	userRepo     *repository.UserRepository
	affinityRepo *repository.AffinityRepository
	messageRepo  *repository.MessageRepository
}

// NewDiscoveryService creates the discovery service with dependencies from AppContext.
func NewDiscoveryService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:       appCtx,
		userRepo:     repository.NewUserRepository(appCtx.DB),
		affinityRepo: repository.NewAffinityRepository(appCtx.DB),
		messageRepo:  repository.NewMessageRepository(appCtx.DB),
	}
}

// FetchUsers returns the candidate feed for the session user: profiles not
// yet rated, matching both preference directions, each with its full quiz.
func (s *Service) FetchUsers(c *gin.Context) {
	viewerID, ok := middleware.UserID(c)
	if !ok {
		apperr.Respond(c, s.appCtx.Logger, apperr.Unauthorized("authentication required"))
		return
	}

	ctx := c.Request.Context()
	viewer, err := s.userRepo.FindByID(ctx, viewerID)
	if err != nil {
		apperr.Respond(c, s.appCtx.Logger, err)
		return
	}

	candidates, err := s.affinityRepo.ListCandidates(ctx, viewer.ID, viewer.Gender, viewer.ShowToUser)
	if err != nil {
		apperr.Respond(c, s.appCtx.Logger, err)
		return
	}

	s.appCtx.Logger.Debug("feed built", "viewer", viewerID, "candidates", len(candidates))
	c.JSON(http.StatusOK, candidates)
}

type rateRequest struct {
	LikedID    uint64 `json:"likedId"`
	DislikedID uint64 `json:"dislikedId"`
}

// Like records a like from the session user and, when it completes a
// mutual pair, seeds the conversation with the greeting message.
//
// Behavior:
//   - Edge insert, reciprocal check and greeting insert run in ONE
//     transaction; a failure rolls all of it back.
//   - The greeting fires only when the like edge is newly created, so
//     repeating a like can never produce a second greeting.
//   - Responds with the mutual flag so the client can show the match screen.
func (s *Service) Like(c *gin.Context) {
	actorID, ok := middleware.UserID(c)
	if !ok {
		apperr.Respond(c, s.appCtx.Logger, apperr.Unauthorized("authentication required"))
		return
	}

	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.LikedID == 0 {
		apperr.Respond(c, s.appCtx.Logger, apperr.Validation("likedId is required"))
		return
	}
	if req.LikedID == actorID {
		apperr.Respond(c, s.appCtx.Logger, apperr.Validation("cannot rate yourself"))
		return
	}

	ctx := c.Request.Context()
	if exists, err := s.userRepo.Exists(ctx, req.LikedID); err != nil {
		apperr.Respond(c, s.appCtx.Logger, err)
		return
	} else if !exists {
		apperr.Respond(c, s.appCtx.Logger, apperr.NotFound("user not found"))
		return
	}

	var created, mutual bool
	err := s.appCtx.DB.Transaction(func(tx *gorm.DB) error {
		affinity := s.affinityRepo.WithTx(tx)

		var err error
		created, err = affinity.RecordLike(ctx, actorID, req.LikedID)
		if err != nil {
			return err
		}

		mutual, err = affinity.HasLiked(ctx, req.LikedID, actorID)
		if err != nil {
			return err
		}

		// seed the conversation exactly once, on the like that completes the pair
		if created && mutual {
			if _, err := s.messageRepo.WithTx(tx).Create(ctx, actorID, req.LikedID, MatchGreeting); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		apperr.Respond(c, s.appCtx.Logger, err)
		return
	}

	if created {
		s.appCtx.Metrics.RecordLike()
		s.bumpLikeCount(ctx, req.LikedID)
	}
	if created && mutual {
		s.appCtx.Metrics.RecordMatch()
		s.appCtx.Logger.Info("mutual match", "a", actorID, "b", req.LikedID)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Like successfully recorded",
		"isMutualMatch": mutual,
	})
}

// Dislike records a dislike from the session user. Deduped like Like;
// never affects the counterpart's like count.
func (s *Service) Dislike(c *gin.Context) {
	actorID, ok := middleware.UserID(c)
	if !ok {
		apperr.Respond(c, s.appCtx.Logger, apperr.Unauthorized("authentication required"))
		return
	}

	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DislikedID == 0 {
		apperr.Respond(c, s.appCtx.Logger, apperr.Validation("dislikedId is required"))
		return
	}
	if req.DislikedID == actorID {
		apperr.Respond(c, s.appCtx.Logger, apperr.Validation("cannot rate yourself"))
		return
	}

	ctx := c.Request.Context()
	if exists, err := s.userRepo.Exists(ctx, req.DislikedID); err != nil {
		apperr.Respond(c, s.appCtx.Logger, err)
		return
	} else if !exists {
		apperr.Respond(c, s.appCtx.Logger, apperr.NotFound("user not found"))
		return
	}

	if _, err := s.affinityRepo.RecordDislike(ctx, actorID, req.DislikedID); err != nil {
		apperr.Respond(c, s.appCtx.Logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Dislike successfully recorded"})
}

type checkMatchRequest struct {
	LikerID uint64 `json:"likerId"`
	LikedID uint64 `json:"likedId"`
}

// CheckForMatch reports whether a like edge exists in both directions
// between the given pair.
func (s *Service) CheckForMatch(c *gin.Context) {
	var req checkMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.LikerID == 0 || req.LikedID == 0 {
		apperr.Respond(c, s.appCtx.Logger, apperr.Validation("likerId and likedId are required"))
		return
	}

	mutual, err := s.affinityRepo.IsMutualMatch(c.Request.Context(), req.LikerID, req.LikedID)
	if err != nil {
		apperr.Respond(c, s.appCtx.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isMutualMatch": mutual})
}

type defaultMessageRequest struct {
	ReceiverID  uint64 `json:"receiverId"`
	MessageText string `json:"messageText"`
}

// DefaultMessage seeds a conversation with the match greeting. Kept for
// clients that drive the greeting themselves; the like endpoint already
// does this inside its transaction, so this call is idempotent per pair:
// it inserts only when the pair is matched and the thread is still empty.
func (s *Service) DefaultMessage(c *gin.Context) {
	senderID, ok := middleware.UserID(c)
	if !ok {
		apperr.Respond(c, s.appCtx.Logger, apperr.Unauthorized("authentication required"))
		return
	}

	var req defaultMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ReceiverID == 0 {
		apperr.Respond(c, s.appCtx.Logger, apperr.Validation("receiverId is required"))
		return
	}

	text := req.MessageText
	if text == "" {
		text = MatchGreeting
	}

	ctx := c.Request.Context()
	mutual, err := s.affinityRepo.IsMutualMatch(ctx, senderID, req.ReceiverID)
	if err != nil {
		apperr.Respond(c, s.appCtx.Logger, err)
		return
	}
	if !mutual {
		apperr.Respond(c, s.appCtx.Logger, apperr.Validation("users are not matched"))
		return
	}

	seeded, err := s.messageRepo.HasThread(ctx, senderID, req.ReceiverID)
	if err != nil {
		apperr.Respond(c, s.appCtx.Logger, err)
		return
	}
	if seeded {
		c.JSON(http.StatusOK, gin.H{"message": "Conversation already seeded"})
		return
	}

	msg, err := s.messageRepo.Create(ctx, senderID, req.ReceiverID, text)
	if err != nil {
		apperr.Respond(c, s.appCtx.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Default message created successfully.",
		"messageDetails": gin.H{
			"message_id": msg.ID,
			"created_at": msg.CreatedAt,
		},
	})
}

// FetchMatches lists every mutual match of the session user with name and
// avatar, ordered by counterpart name.
func (s *Service) FetchMatches(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		apperr.Respond(c, s.appCtx.Logger, apperr.Unauthorized("authentication required"))
		return
	}

	matches, err := s.affinityRepo.ListMatches(c.Request.Context(), userID)
	if err != nil {
		apperr.Respond(c, s.appCtx.Logger, err)
		return
	}
	c.JSON(http.StatusOK, matches)
}

// LikedCount returns how many users like the session user.
// Cache-first strategy:
//  1. Attempts to read from Redis (likes:count:userID), refreshing the TTL.
//  2. On cache miss, falls back to the DB and repopulates the cache.
func (s *Service) LikedCount(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		apperr.Respond(c, s.appCtx.Logger, apperr.Unauthorized("authentication required"))
		return
	}

	ctx := c.Request.Context()
	if count, hit, err := s.appCtx.RedisCache.GetLikeCount(ctx, userID); err == nil && hit {
		c.JSON(http.StatusOK, gin.H{"count": count})
		return
	}

	count, err := s.affinityRepo.CountLikers(ctx, userID)
	if err != nil {
		apperr.Respond(c, s.appCtx.Logger, err)
		return
	}
	_ = s.appCtx.RedisCache.SetLikeCount(ctx, userID, count)

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// bumpLikeCount increments the cached liked-you counter when present.
// Best effort only; the DB stays the source of truth.
func (s *Service) bumpLikeCount(ctx context.Context, userID uint64) {
	key := s.appCtx.RedisCache.KeyForLikeCount(userID)
	if _, err := s.appCtx.RedisCache.Get(ctx, key); err != nil {
		if !errors.Is(err, redis.Nil) {
			s.appCtx.Logger.Warn("like count cache read failed", "err", err)
		}
		return // nothing cached, next read repopulates from the DB
	}
	if _, err := s.appCtx.RedisCache.Incr(ctx, key); err != nil {
		s.appCtx.Logger.Warn("like count cache incr failed", "err", err)
		return
	}
	_ = s.appCtx.RedisCache.Client.Expire(ctx, key, cache.LikeCountTTL).Err()
}
