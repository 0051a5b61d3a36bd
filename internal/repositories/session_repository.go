package repositories

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"magicauth/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRepository — реестр сессий верификации в памяти процесса.
// Без TTL и персистентности: время жизни записей = время жизни сервера.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	order    map[string]uint64 // порядок вставки: CreatedAt может совпасть на грубых часах
	seq      uint64
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]*models.Session),
		order:    make(map[string]uint64),
	}
}

// Create — новая сессия в статусе pending, возвращает её идентификатор.
func (r *SessionRepository) Create(phoneNumber, deviceIP string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	for {
		if _, exists := r.sessions[id]; !exists {
			break
		}
		id = uuid.NewString()
	}

	r.sessions[id] = &models.Session{
		ID:              id,
		PhoneNumber:     phoneNumber,
		Status:          models.StatusPending,
		DeviceIPAddress: deviceIP,
		CreatedAt:       time.Now(),
	}
	r.seq++
	r.order[id] = r.seq
	return id, nil
}

// Get — точный поиск по id. Возвращает (nil, nil), если записи нет.
func (r *SessionRepository) Get(id string) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// FindByPhone — самая свежая сессия по номеру телефона.
// Возвращает (nil, nil), если совпадений нет.
func (r *SessionRepository) FindByPhone(phoneNumber string) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *models.Session
	for _, s := range r.sessions {
		if s.PhoneNumber != phoneNumber {
			continue
		}
		if latest == nil || r.order[s.ID] > r.order[latest.ID] {
			latest = s
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

// UpdateStatus — перезаписывает статус (и деталь ошибки) существующей сессии.
// Терминальные статусы (verified/failed/error) не перезаписываются.
func (r *SessionRepository) UpdateStatus(id string, status models.SessionStatus, errorDetail string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if s.Status.IsTerminal() {
		return nil
	}
	s.Status = status
	s.ErrorDetail = errorDetail
	return nil
}

// Count — количество сессий в реестре (для диагностики).
func (r *SessionRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
