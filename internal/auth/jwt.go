package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type JWTConfig struct {
	Issuer  string
	Secret  string
	TTLDays int
}

// JWTManager issues and verifies visitor tokens. A visitor token stands in
// for the browser profile: it names the storage namespace, not an account.
type JWTManager struct {
	cfg JWTConfig
	now func() time.Time
}

type Claims struct {
	VisitorID string `json:"vid"`
	jwt.RegisteredClaims
}

func NewJWTManager(cfg JWTConfig) *JWTManager {
	return &JWTManager{cfg: cfg, now: time.Now}
}

func (m *JWTManager) TTL() time.Duration {
	return time.Duration(m.cfg.TTLDays) * 24 * time.Hour
}

// NewVisitorID is random, so visitor namespaces cannot be guessed.
func NewVisitorID() string {
	return uuid.NewString()
}

func (m *JWTManager) SignVisitor(visitorID string) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.TTL())
	claims := Claims{
		VisitorID: visitorID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.cfg.Issuer,
			Subject:   visitorID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString([]byte(m.cfg.Secret))
	return s, exp, err
}

func (m *JWTManager) ParseVisitor(tokenStr string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(m.cfg.Secret), nil
	}, jwt.WithIssuer(m.cfg.Issuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, err
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || claims.VisitorID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
