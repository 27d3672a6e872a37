package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/ougirez/xformreports/internal/pkg/constants"
)

type SessionClaims struct {
	StartDate *int64 `json:"start_date,omitempty"`
	EndDate   *int64 `json:"end_date,omitempty"`
	jwt.StandardClaims
}

// Session is the signed cookie state of one client. It remembers whether
// it changed since it was parsed.
type Session struct {
	claims SessionClaims
	dirty  bool
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) field(key string) **int64 {
	switch key {
	case constants.SessionKeyStartDate:
		return &s.claims.StartDate
	case constants.SessionKeyEndDate:
		return &s.claims.EndDate
	default:
		return nil
	}
}

func (s *Session) GetTime(key string) (time.Time, bool) {
	f := s.field(key)
	if f == nil || *f == nil {
		return time.Time{}, false
	}
	return time.Unix(**f, 0).UTC(), true
}

func (s *Session) SetTime(key string, t time.Time) {
	f := s.field(key)
	if f == nil {
		return
	}
	v := t.Unix()
	if *f != nil && **f == v {
		return
	}
	*f = &v
	s.dirty = true
}

func (s *Session) Dirty() bool {
	return s.dirty
}

func GenerateSessionToken(s *Session, secret string, ttl time.Duration) (string, error) {
	claims := s.claims
	claims.IssuedAt = time.Now().Unix()
	if ttl > 0 {
		claims.ExpiresAt = time.Now().Add(ttl).Unix()
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("SignedString: %w", err)
	}
	return token, nil
}

func ParseSessionToken(token, secret string) (*Session, error) {
	var claims SessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", constants.ErrUnauthorized, err.Error())
	}
	if !parsed.Valid {
		return nil, constants.ErrUnauthorized
	}

	return &Session{claims: claims}, nil
}
