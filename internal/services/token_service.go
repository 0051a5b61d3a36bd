package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"magicauth/internal/models"
	"magicauth/internal/repositories"
)

var ErrNotVerified = errors.New("session not verified")

type SessionClaims struct {
	SessionID   string `json:"session_id"`
	PhoneNumber string `json:"phone_number"`
	jwt.RegisteredClaims
}

// TokenService — выдаёт короткоживущий JWT как доказательство пройденной
// верификации номера (для downstream-сервисов).
type TokenService struct {
	Repo     *repositories.SessionRepository
	Secret   []byte
	TokenTTL time.Duration
}

func NewTokenService(repo *repositories.SessionRepository, secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &TokenService{Repo: repo, Secret: []byte(secret), TokenTTL: ttl}
}

// IssueSessionToken — JWT по verified-сессии. Для любой другой сессии — отказ.
func (s *TokenService) IssueSessionToken(sessionID string) (string, error) {
	session, err := s.Repo.Get(sessionID)
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", ErrSessionNotFound
	}
	if session.Status != models.StatusVerified {
		return "", ErrNotVerified
	}

	claims := &SessionClaims{
		SessionID:   session.ID,
		PhoneNumber: session.PhoneNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.Secret)
}

// ParseSessionToken — разбор и валидация выданного токена.
// Принимаем только HMAC (HS256 и т.п.).
func (s *TokenService) ParseSessionToken(tokenStr string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.Secret, nil
	})
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return claims, nil
}
