package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/elucidate-app/elucidate/internal/apperr"
	"github.com/elucidate-app/elucidate/internal/session"
)

// userIDKey is the gin context key the session guard stores the caller under.
const userIDKey = "session_user_id"

// SessionAuth verifies the session cookie and stores the caller's user id
// on the request context. The verified session is the only source of caller
// identity; handlers must never trust ids from request bodies.
func SessionAuth(codec *session.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := codec.FromRequest(c)
		if err != nil {
			apperr.Respond(c, nil, session.AsAppError(err))
			return
		}
		c.Set(userIDKey, payload.UserID)
		c.Next()
	}
}

// UserID returns the authenticated caller's id set by SessionAuth.
func UserID(c *gin.Context) (uint64, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}
