package repository

import (
	"context"

	"github.com/torqueup/assistant-api/internal/domain/entity"
)

// CatalogParser reads vehicle listings out of uploaded workbooks.
type CatalogParser interface {
	// ParseVehicles reads vehicles from a file on disk.
	ParseVehicles(ctx context.Context, filePath string) ([]entity.Vehicle, error)

	// ParseVehiclesFromBytes reads vehicles from an uploaded file body.
	ParseVehiclesFromBytes(ctx context.Context, data []byte, filename string) ([]entity.Vehicle, error)
}
