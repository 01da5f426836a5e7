package auth

import (
	"errors"
	"time"

	"github.com/fekuna/omnipos-picklist-service/internal/apperr"
	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleStore Role = "store"
	RoleAdmin Role = "admin"
)

const issuer = "picklist-service"

// Session is the identity carried by a request. Admin sessions have no store.
type Session struct {
	StoreID   string    `json:"store_id,omitempty"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

type claims struct {
	StoreID string `json:"store_id,omitempty"`
	Role    Role   `json:"role"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for the session and fills in its expiry.
func (m *TokenManager) Issue(s *Session) (string, error) {
	now := m.now()
	s.ExpiresAt = now.Add(m.ttl)
	c := &claims{
		StoreID: s.StoreID,
		Role:    s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   string(s.Role),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
}

func (m *TokenManager) Parse(token string) (*Session, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))
	if err != nil || !parsed.Valid {
		return nil, apperr.Wrap(apperr.KindUnauthorized, err, "invalid session token")
	}

	switch c.Role {
	case RoleAdmin:
	case RoleStore:
		if c.StoreID == "" {
			return nil, apperr.Unauthorized("store session without store id")
		}
	default:
		return nil, apperr.Unauthorized("unknown role %q", c.Role)
	}

	s := &Session{StoreID: c.StoreID, Role: c.Role}
	if c.ExpiresAt != nil {
		s.ExpiresAt = c.ExpiresAt.Time
	}
	return s, nil
}
