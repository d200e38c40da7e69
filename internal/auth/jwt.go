package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dukerupert/homebase/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// DefaultTTL is how long a session token stays valid.
const DefaultTTL = 30 * 24 * time.Hour

const issuer = "homebase"

type Claims struct {
	Member model.Member `json:"member"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 session tokens.
type TokenService struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewTokenService(secretKey string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenService{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		now:       time.Now,
	}
}

// Issue creates a token for a new session, or for an existing session id
// when the active member changes.
func (s *TokenService) Issue(sessionID string, member model.Member) (string, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	now := s.now()
	claims := Claims{
		Member: member,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Validate verifies a token and returns the session it carries.
func (s *TokenService) Validate(tokenString string) (Session, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now), jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Session{}, ErrExpiredToken
		}
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ID == "" || (claims.Member != "" && !claims.Member.Valid()) {
		return Session{}, ErrInvalidToken
	}
	return Session{ID: claims.ID, Member: claims.Member}, nil
}

// TTL returns the token lifetime, for cookie expiry.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}
