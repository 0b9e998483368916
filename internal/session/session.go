// Package session implements the signed cookie session: an HS256 JWT
// carrying the user id, valid for seven days, stored in an HTTP-only
// cookie. There is no server-side session table, so a token stays valid
// until it expires.
package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/elucidate-app/elucidate/internal/apperr"
	"github.com/elucidate-app/elucidate/internal/config"
)

const CookieName = "session"

var (
	ErrNoSession      = errors.New("no session cookie")
	ErrInvalidSession = errors.New("invalid or expired session")
)

// Payload is the verified content of a session token.
type Payload struct {
	UserID    uint64    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	IssuedAt  time.Time `json:"issuedAt"`
}

// Codec signs and verifies session tokens and manages the cookie jar.
type Codec struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewCodec(cfg *config.Config) *Codec {
	return &Codec{
		secret: []byte(cfg.Session.Secret),
		ttl:    cfg.Session.TTL,
		// Local development runs over plain HTTP.
		secure: cfg.App.ENV != "development",
	}
}

// Sign builds a token for userID expiring after the configured TTL.
func (s *Codec) Sign(userID uint64, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(s.ttl)
	claims := jwt.MapClaims{
		"userId": userID,
		"exp":    expiresAt.Unix(),
		"iat":    now.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Parse verifies signature, algorithm and expiry and returns the payload.
func (s *Codec) Parse(tokenString string) (*Payload, error) {
	token, err := jwt.Parse(tokenString,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidSession
	}
	rawID, ok := claims["userId"].(float64)
	if !ok || rawID <= 0 {
		return nil, ErrInvalidSession
	}

	p := &Payload{UserID: uint64(rawID)}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		p.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		p.IssuedAt = iat.Time
	}
	return p, nil
}

// Issue signs a token for userID and sets the session cookie on the response.
func (s *Codec) Issue(c *gin.Context, userID uint64) error {
	token, _, err := s.Sign(userID, time.Now())
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(s.ttl.Seconds()), "/", "", s.secure, true)
	return nil
}

// FromRequest reads and verifies the session cookie.
// A missing cookie and a bad token are distinct failures; both end up 401.
func (s *Codec) FromRequest(c *gin.Context) (*Payload, error) {
	tokenString, err := c.Cookie(CookieName)
	if err != nil || tokenString == "" {
		return nil, ErrNoSession
	}
	return s.Parse(tokenString)
}

// Clear deletes the session cookie. Idempotent.
func (s *Codec) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", s.secure, true)
}

// AsAppError converts codec failures into the HTTP error taxonomy.
func AsAppError(err error) error {
	switch {
	case errors.Is(err, ErrNoSession):
		return apperr.Unauthorized("authentication required")
	case errors.Is(err, ErrInvalidSession):
		return apperr.Unauthorized("invalid or expired session")
	default:
		return err
	}
}
