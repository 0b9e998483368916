package repository

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/elucidate-app/elucidate/internal/db"
	"github.com/elucidate-app/elucidate/internal/utils/pagination"
)

// MessageRepository provides data access for the pairwise message log.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new repository bound to the given DB connection.
func NewMessageRepository(database *gorm.DB) *MessageRepository {
	return &MessageRepository{db: database}
}

// WithTx returns a copy of the repository bound to tx, so the mutual-match
// greeting insert can join the like transaction.
func (r *MessageRepository) WithTx(tx *gorm.DB) *MessageRepository {
	return &MessageRepository{db: tx}
}

// Create inserts an immutable message row with a server-assigned timestamp.
func (r *MessageRepository) Create(ctx context.Context, senderID, receiverID uint64, text string) (*db.Message, error) {
	msg := db.Message{SenderID: senderID, ReceiverID: receiverID, MessageText: text}
	if err := r.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// HasThread reports whether any message exists between the unordered pair.
func (r *MessageRepository) HasThread(ctx context.Context, a, b uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Message{}).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}

// MessageView is one message as rendered inside a thread.
type MessageView struct {
	ID          uint64 `json:"id"`
	SenderID    uint64 `json:"sender_id"`
	ReceiverID  uint64 `json:"receiver_id"`
	MessageText string `json:"message_text"`
	CreatedAt   int64  `json:"created_at"`
}

// Conversation is a full thread with one counterpart.
type Conversation struct {
	ParticipantID     uint64        `json:"participant_id"`
	ParticipantName   string        `json:"participant_name"`
	ParticipantAvatar string        `json:"participant_avatar"`
	Messages          []MessageView `json:"messages"`
}

// ListConversations groups all of userID's messages by the other
// participant and returns full ordered threads.
//
// Behavior:
//   - Messages within a thread are oldest-first.
//   - Threads are ordered by their newest message, most recent first,
//     with counterpart id as tiebreaker.
//   - Cursor pagination over threads via the opaque token; limit+1 fetch
//     decides whether a next token is issued.
func (r *MessageRepository) ListConversations(
	ctx context.Context,
	userID uint64,
	paginationToken *string,
	limit int,
) ([]Conversation, *string, error) {
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	var messages []db.Message
	if err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at, id").
		Find(&messages).Error; err != nil {
		return nil, nil, err
	}

	// group by counterpart
	threads := make(map[uint64][]MessageView)
	for _, m := range messages {
		counterpart := m.SenderID
		if m.SenderID == userID {
			counterpart = m.ReceiverID
		}
		threads[counterpart] = append(threads[counterpart], MessageView{
			ID:          m.ID,
			SenderID:    m.SenderID,
			ReceiverID:  m.ReceiverID,
			MessageText: m.MessageText,
			CreatedAt:   m.CreatedAt.UnixMilli(),
		})
	}

	conversations := make([]Conversation, 0, len(threads))
	for counterpart, msgs := range threads {
		conversations = append(conversations, Conversation{
			ParticipantID: counterpart,
			Messages:      msgs,
		})
	}

	// newest activity first; messages are already oldest-first per thread
	sort.Slice(conversations, func(i, j int) bool {
		li := lastActivity(conversations[i])
		lj := lastActivity(conversations[j])
		if li != lj {
			return li > lj
		}
		return conversations[i].ParticipantID > conversations[j].ParticipantID
	})

	// apply cursor: keep threads strictly after the cursor position
	if cursor.CounterpartID > 0 && cursor.LastUnix > 0 {
		filtered := conversations[:0]
		for _, conv := range conversations {
			la := lastActivity(conv)
			if la < cursor.LastUnix || (la == cursor.LastUnix && conv.ParticipantID < cursor.CounterpartID) {
				filtered = append(filtered, conv)
			}
		}
		conversations = filtered
	}

	// pagination: build next cursor if needed
	var nextToken *string
	if limit > 0 && len(conversations) > limit {
		last := conversations[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			CounterpartID: last.ParticipantID,
			LastUnix:      lastActivity(last),
		})
		nextToken = &token
		conversations = conversations[:limit]
	}

	if err := r.fillParticipants(ctx, conversations); err != nil {
		return nil, nil, err
	}

	return conversations, nextToken, nil
}

// fillParticipants resolves counterpart names and avatars in one query.
func (r *MessageRepository) fillParticipants(ctx context.Context, conversations []Conversation) error {
	if len(conversations) == 0 {
		return nil
	}
	ids := make([]uint64, 0, len(conversations))
	for _, c := range conversations {
		ids = append(ids, c.ParticipantID)
	}

	var users []db.User
	if err := r.db.WithContext(ctx).
		Select("id, name, photo").
		Where("id IN ?", ids).
		Find(&users).Error; err != nil {
		return err
	}

	byID := make(map[uint64]db.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for i := range conversations {
		if u, ok := byID[conversations[i].ParticipantID]; ok {
			conversations[i].ParticipantName = u.Name
			conversations[i].ParticipantAvatar = u.Photo
		}
	}
	return nil
}

func lastActivity(c Conversation) int64 {
	if len(c.Messages) == 0 {
		return 0
	}
	return c.Messages[len(c.Messages)-1].CreatedAt
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
