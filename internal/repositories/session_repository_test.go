package repositories

import (
	"fmt"
	"sync"
	"testing"

	"magicauth/internal/models"
)

func TestCreateStartsPending(t *testing.T) {
	repo := NewSessionRepository()

	id, err := repo.Create("+15550001", "203.0.113.7")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Fatal("Create returned empty id")
	}

	s, err := repo.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s == nil {
		t.Fatal("Get returned nil for freshly created session")
	}
	if s.Status != models.StatusPending {
		t.Errorf("status = %q, want %q", s.Status, models.StatusPending)
	}
	if s.PhoneNumber != "+15550001" {
		t.Errorf("phone = %q, want +15550001", s.PhoneNumber)
	}
	if s.DeviceIPAddress != "203.0.113.7" {
		t.Errorf("ip = %q, want 203.0.113.7", s.DeviceIPAddress)
	}
}

func TestGetUnknownReturnsNil(t *testing.T) {
	repo := NewSessionRepository()

	s, err := repo.Get("no-such-session")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s != nil {
		t.Fatalf("Get unknown id = %+v, want nil", s)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	repo := NewSessionRepository()
	id, _ := repo.Create("+15550001", "")

	s, _ := repo.Get(id)
	s.Status = models.StatusVerified // мутация копии не должна задеть реестр

	again, _ := repo.Get(id)
	if again.Status != models.StatusPending {
		t.Errorf("status = %q after mutating a returned copy, want %q", again.Status, models.StatusPending)
	}
}

func TestFindByPhonePicksLatest(t *testing.T) {
	repo := NewSessionRepository()

	_, _ = repo.Create("+15550001", "")
	second, _ := repo.Create("+15550001", "")
	_, _ = repo.Create("+15550002", "")

	s, err := repo.FindByPhone("+15550001")
	if err != nil {
		t.Fatalf("FindByPhone: %v", err)
	}
	if s == nil {
		t.Fatal("FindByPhone returned nil")
	}
	if s.ID != second {
		t.Errorf("FindByPhone picked %s, want latest %s", s.ID, second)
	}
}

func TestFindByPhoneNoMatch(t *testing.T) {
	repo := NewSessionRepository()
	_, _ = repo.Create("+15550001", "")

	s, err := repo.FindByPhone("+15559999")
	if err != nil {
		t.Fatalf("FindByPhone: %v", err)
	}
	if s != nil {
		t.Fatalf("FindByPhone = %+v, want nil", s)
	}
}

func TestUpdateStatus(t *testing.T) {
	repo := NewSessionRepository()
	id, _ := repo.Create("+15550001", "")

	if err := repo.UpdateStatus(id, models.StatusError, "auth expired"); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	s, _ := repo.Get(id)
	if s.Status != models.StatusError {
		t.Errorf("status = %q, want %q", s.Status, models.StatusError)
	}
	if s.ErrorDetail != "auth expired" {
		t.Errorf("errorDetail = %q, want %q", s.ErrorDetail, "auth expired")
	}
}

func TestUpdateStatusUnknown(t *testing.T) {
	repo := NewSessionRepository()

	if err := repo.UpdateStatus("no-such-session", models.StatusVerified, ""); err != ErrSessionNotFound {
		t.Fatalf("UpdateStatus unknown id err = %v, want ErrSessionNotFound", err)
	}
}

func TestTerminalStatusIsImmutable(t *testing.T) {
	terminal := []models.SessionStatus{models.StatusVerified, models.StatusFailed, models.StatusError}

	for _, from := range terminal {
		repo := NewSessionRepository()
		id, _ := repo.Create("+15550001", "")
		if err := repo.UpdateStatus(id, from, ""); err != nil {
			t.Fatalf("UpdateStatus(%s): %v", from, err)
		}

		if err := repo.UpdateStatus(id, models.StatusCallbackReceived, ""); err != nil {
			t.Fatalf("UpdateStatus after %s: %v", from, err)
		}
		s, _ := repo.Get(id)
		if s.Status != from {
			t.Errorf("terminal %s overwritten to %s", from, s.Status)
		}
	}
}

func TestCallbackReceivedIsNotTerminal(t *testing.T) {
	repo := NewSessionRepository()
	id, _ := repo.Create("+15550001", "")

	_ = repo.UpdateStatus(id, models.StatusCallbackReceived, "")
	if err := repo.UpdateStatus(id, models.StatusVerified, ""); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	s, _ := repo.Get(id)
	if s.Status != models.StatusVerified {
		t.Errorf("status = %q, want %q", s.Status, models.StatusVerified)
	}
}

func TestConcurrentCreatesAreDistinct(t *testing.T) {
	repo := NewSessionRepository()
	const n = 100

	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := repo.Create(fmt.Sprintf("+1555%04d", i), "")
			if err != nil {
				t.Errorf("Create: %v", err)
				return
			}
			ids <- id
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate session id %s", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("got %d distinct ids, want %d", len(seen), n)
	}
	if repo.Count() != n {
		t.Fatalf("Count() = %d, want %d (lost updates)", repo.Count(), n)
	}
}
