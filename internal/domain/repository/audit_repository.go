package repository

import (
	"context"

	"github.com/torqueup/assistant-api/internal/domain/entity"
)

// AuditRepository records catalog imports.
type AuditRepository interface {
	// LogImport records one import.
	LogImport(ctx context.Context, audit entity.ImportAudit) error

	// RecentImports returns the most recent limit imports, newest first.
	RecentImports(ctx context.Context, limit int) ([]entity.ImportAudit, error)
}
