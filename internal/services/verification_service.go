package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"magicauth/internal/models"
	"magicauth/internal/repositories"
	"magicauth/internal/utils"
)

var (
	ErrPhoneRequired   = errors.New("phone number required")
	ErrTokenRequired   = errors.New("token required")
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidState    = errors.New("invalid state parameter")
)

// MagicAuthClient — контракт внешнего провайдера (Glide).
type MagicAuthClient interface {
	StartAuth(req *utils.StartAuthRequest) (*utils.StartAuthResponse, error)
	VerifyAuth(req *utils.VerifyAuthRequest) (*utils.VerifyAuthResponse, error)
}

type StartResult struct {
	Type        string `json:"type"`
	AuthURL     string `json:"authUrl"`
	FlatAuthURL string `json:"flatAuthUrl"`
	OperatorID  string `json:"operatorId"`
	State       string `json:"state"`
}

type SessionInfo struct {
	PhoneNumber string               `json:"phoneNumber"`
	Status      models.SessionStatus `json:"status"`
}

type VerificationService struct {
	Repo        *repositories.SessionRepository
	Client      MagicAuthClient
	RedirectURL string
}

func NewVerificationService(repo *repositories.SessionRepository, client MagicAuthClient, redirectURL string) *VerificationService {
	return &VerificationService{Repo: repo, Client: client, RedirectURL: redirectURL}
}

// Start — создаёт сессию и запускает проверку у провайдера.
// Идентификатор сессии уходит провайдеру как opaque state и возвращается
// клиенту, чтобы тот мог поллить статус и принять callback.
func (s *VerificationService) Start(phoneNumber, deviceIP string) (*StartResult, error) {
	phoneNumber = strings.TrimSpace(phoneNumber)
	if phoneNumber == "" {
		return nil, ErrPhoneRequired
	}

	sessionID, err := s.Repo.Create(phoneNumber, deviceIP)
	if err != nil {
		return nil, err
	}
	log.Printf("[magic][start] session created: id=%s phone=%s ip=%s", sessionID, phoneNumber, deviceIP)

	res, err := s.Client.StartAuth(&utils.StartAuthRequest{
		PhoneNumber:     phoneNumber,
		State:           sessionID,
		RedirectURL:     s.RedirectURL,
		FallbackChannel: utils.FallbackNone,
		DeviceIPAddress: deviceIP,
	})
	if err != nil {
		// откат не делаем: фиксируем ошибку провайдера прямо в сессии,
		// чтобы она не зависла в pending
		if uerr := s.Repo.UpdateStatus(sessionID, models.StatusError, err.Error()); uerr != nil {
			log.Printf("[magic][start] mark error failed: id=%s err=%v", sessionID, uerr)
		}
		return nil, fmt.Errorf("glide error: %w", err)
	}

	return &StartResult{
		Type:        res.Type,
		AuthURL:     res.AuthURL,
		FlatAuthURL: res.FlatAuthURL,
		OperatorID:  res.OperatorID,
		State:       sessionID,
	}, nil
}

// Check — сверяет токен у провайдера и обновляет последнюю сессию по номеру.
// Если подходящей сессии нет, вердикт всё равно возвращается клиенту,
// состояние не трогаем.
func (s *VerificationService) Check(phoneNumber, token, deviceIP string) (bool, error) {
	phoneNumber = strings.TrimSpace(phoneNumber)
	if phoneNumber == "" {
		return false, ErrPhoneRequired
	}
	if strings.TrimSpace(token) == "" {
		return false, ErrTokenRequired
	}

	res, err := s.Client.VerifyAuth(&utils.VerifyAuthRequest{
		PhoneNumber:     phoneNumber,
		Token:           token,
		DeviceIPAddress: deviceIP,
	})
	if err != nil {
		return false, fmt.Errorf("glide error: %w", err)
	}

	session, err := s.Repo.FindByPhone(phoneNumber)
	if err != nil {
		return false, err
	}
	if session == nil {
		log.Printf("[magic][check] no session for phone=%s, verdict=%v returned anyway", phoneNumber, res.Verified)
		return res.Verified, nil
	}

	status := models.StatusFailed
	if res.Verified {
		status = models.StatusVerified
	}
	if err := s.Repo.UpdateStatus(session.ID, status, ""); err != nil {
		return false, err
	}
	log.Printf("[magic][check] id=%s phone=%s -> %s", session.ID, phoneNumber, status)
	return res.Verified, nil
}

// GetSession — чистый поиск по идентификатору (state-токену).
func (s *VerificationService) GetSession(sessionID string) (*SessionInfo, error) {
	session, err := s.Repo.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return &SessionInfo{PhoneNumber: session.PhoneNumber, Status: session.Status}, nil
}

// HandleCallback — редирект браузера от провайдера после out-of-band шага.
// Ошибка в query-параметре фиксируется в сессии как error, иначе
// callback_received (не терминальный: check() ещё может довести до verified).
func (s *VerificationService) HandleCallback(state, errParam string) error {
	session, err := s.Repo.Get(state)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrInvalidState
	}

	if errParam != "" {
		log.Printf("[magic][callback] id=%s provider error=%q", state, errParam)
		return s.Repo.UpdateStatus(state, models.StatusError, errParam)
	}
	log.Printf("[magic][callback] id=%s received", state)
	return s.Repo.UpdateStatus(state, models.StatusCallbackReceived, "")
}
