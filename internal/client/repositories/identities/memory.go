package identities

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/librarydesk/internal/client/models"
	"github.com/dmitrijs2005/librarydesk/internal/common"
)

// Memory is an in-process Directory keyed by normalised email.
type Memory struct {
	mu      sync.RWMutex
	byEmail map[string]models.Identity
}

func NewMemory() *Memory {
	return &Memory{byEmail: make(map[string]models.Identity)}
}

func (m *Memory) FindByEmail(_ context.Context, email string) (*models.Identity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	identity, ok := m.byEmail[models.NormalizeEmail(email)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &identity, nil
}

func (m *Memory) Insert(_ context.Context, identity *models.Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := models.NormalizeEmail(identity.Email)
	if _, ok := m.byEmail[key]; ok {
		return common.ErrEmailAlreadyExists
	}
	m.byEmail[key] = *identity
	return nil
}

// Len returns the number of identities.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byEmail)
}
