package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/torqueup/assistant-api/internal/domain/entity"
	"github.com/torqueup/assistant-api/internal/domain/repository"
)

type memoryPartRepository struct {
	mu    sync.RWMutex
	parts map[string]entity.Part
	order []string
}

// NewMemoryPartRepository creates an in-memory parts repository.
func NewMemoryPartRepository() repository.PartRepository {
	return &memoryPartRepository{parts: make(map[string]entity.Part)}
}

func (m *memoryPartRepository) SaveMany(ctx context.Context, parts []entity.Part) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range parts {
		if _, exists := m.parts[p.ID]; !exists {
			m.order = append(m.order, p.ID)
		}
		m.parts[p.ID] = p
	}
	return nil
}

// GetAll returns every part in insertion order.
func (m *memoryPartRepository) GetAll(ctx context.Context) ([]entity.Part, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	parts := make([]entity.Part, 0, len(m.order))
	for _, id := range m.order {
		parts = append(parts, m.parts[id])
	}
	return parts, nil
}

// SearchByTitle finds parts whose title contains the query, case-insensitively.
func (m *memoryPartRepository) SearchByTitle(ctx context.Context, query string) ([]entity.Part, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, nil
	}

	var results []entity.Part
	for _, id := range m.order {
		p := m.parts[id]
		if strings.Contains(strings.ToLower(p.Title), query) {
			results = append(results, p)
		}
	}
	return results, nil
}

type memoryProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]entity.SellerProfile
}

// NewMemoryProfileRepository creates an in-memory seller profile repository.
func NewMemoryProfileRepository() repository.ProfileRepository {
	return &memoryProfileRepository{profiles: make(map[string]entity.SellerProfile)}
}

func (m *memoryProfileRepository) SaveMany(ctx context.Context, profiles []entity.SellerProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range profiles {
		m.profiles[p.ID] = p
	}
	return nil
}

func (m *memoryProfileRepository) GetByID(ctx context.Context, id string) (*entity.SellerProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, exists := m.profiles[id]
	if !exists {
		return nil, fmt.Errorf("profile not found: %s", id)
	}
	return &p, nil
}

func (m *memoryProfileRepository) GetAll(ctx context.Context) ([]entity.SellerProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	profiles := make([]entity.SellerProfile, 0, len(m.profiles))
	for _, p := range m.profiles {
		profiles = append(profiles, p)
	}
	return profiles, nil
}
