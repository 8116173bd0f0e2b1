package repository

import (
	"context"

	"github.com/torqueup/assistant-api/internal/domain/entity"
)

// VehicleRepository stores the vehicle inventory.
type VehicleRepository interface {
	// SaveMany upserts vehicles by ID.
	SaveMany(ctx context.Context, vehicles []entity.Vehicle) error

	// GetByID looks a vehicle up by ID.
	GetByID(ctx context.Context, id string) (*entity.Vehicle, error)

	// Search finds vehicles matching a free-text query.
	Search(ctx context.Context, query string) ([]entity.Vehicle, error)

	// GetAll returns every vehicle.
	GetAll(ctx context.Context) ([]entity.Vehicle, error)

	// ReplaceCatalog swaps the whole inventory for a new snapshot.
	ReplaceCatalog(ctx context.Context, catalog entity.VehicleCatalog) error

	// GetCatalog returns the current snapshot metadata and vehicles.
	GetCatalog(ctx context.Context) (*entity.VehicleCatalog, error)

	// Clear removes every vehicle.
	Clear(ctx context.Context) error
}

// PartRepository stores the spare-parts catalog.
type PartRepository interface {
	SaveMany(ctx context.Context, parts []entity.Part) error

	// GetAll returns every part.
	GetAll(ctx context.Context) ([]entity.Part, error)

	// SearchByTitle finds parts whose title contains the query,
	// case-insensitively.
	SearchByTitle(ctx context.Context, query string) ([]entity.Part, error)
}

// ProfileRepository stores seller display profiles.
type ProfileRepository interface {
	SaveMany(ctx context.Context, profiles []entity.SellerProfile) error

	// GetByID looks a profile up by seller ID.
	GetByID(ctx context.Context, id string) (*entity.SellerProfile, error)

	// GetAll returns every profile.
	GetAll(ctx context.Context) ([]entity.SellerProfile, error)
}
