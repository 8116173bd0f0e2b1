package storage

import (
	"context"
	"sync"

	"github.com/torqueup/assistant-api/internal/domain/entity"
	"github.com/torqueup/assistant-api/internal/domain/repository"
)

type memoryAuditRepository struct {
	mu      sync.RWMutex
	imports []entity.ImportAudit
}

// NewMemoryAuditRepository creates an in-memory import audit log.
func NewMemoryAuditRepository() repository.AuditRepository {
	return &memoryAuditRepository{}
}

// LogImport records one import.
func (m *memoryAuditRepository) LogImport(ctx context.Context, audit entity.ImportAudit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.imports = append(m.imports, audit)
	return nil
}

// RecentImports returns the most recent limit imports, newest first.
func (m *memoryAuditRepository) RecentImports(ctx context.Context, limit int) ([]entity.ImportAudit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]entity.ImportAudit, 0, len(m.imports))
	for i := len(m.imports) - 1; i >= 0; i-- {
		out = append(out, m.imports[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
