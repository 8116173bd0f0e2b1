package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/torqueup/assistant-api/internal/domain/entity"
	"github.com/torqueup/assistant-api/internal/domain/repository"
)

// CatalogUseCase imports vehicle catalogs from uploaded workbooks.
type CatalogUseCase interface {
	// ImportFromBytes parses an uploaded .xlsx body, replaces the vehicle
	// inventory with its contents and records the import. It returns the
	// number of vehicles loaded.
	ImportFromBytes(ctx context.Context, data []byte, filename, actor string) (int, error)

	// CatalogInfo returns a short human summary of the loaded catalog.
	CatalogInfo(ctx context.Context) (string, error)

	// RecentImports lists the most recent imports, newest first.
	RecentImports(ctx context.Context, limit int) ([]entity.ImportAudit, error)
}

type catalogUseCase struct {
	vehicleRepo repository.VehicleRepository
	parser      repository.CatalogParser
	auditRepo   repository.AuditRepository
	log         zerolog.Logger
}

// NewCatalogUseCase creates the catalog import flow.
func NewCatalogUseCase(
	vehicleRepo repository.VehicleRepository,
	parser repository.CatalogParser,
	auditRepo repository.AuditRepository,
	log zerolog.Logger,
) CatalogUseCase {
	return &catalogUseCase{
		vehicleRepo: vehicleRepo,
		parser:      parser,
		auditRepo:   auditRepo,
		log:         log,
	}
}

func (u *catalogUseCase) ImportFromBytes(ctx context.Context, data []byte, filename, actor string) (int, error) {
	vehicles, err := u.parser.ParseVehiclesFromBytes(ctx, data, filename)
	if err != nil {
		return 0, fmt.Errorf("failed to parse catalog: %w", err)
	}

	catalog := entity.VehicleCatalog{
		Vehicles:  vehicles,
		UpdatedAt: time.Now(),
		Source:    filename,
	}
	if err := u.vehicleRepo.ReplaceCatalog(ctx, catalog); err != nil {
		return 0, fmt.Errorf("failed to replace catalog: %w", err)
	}

	audit := entity.ImportAudit{
		ID:        uuid.New().String(),
		Actor:     actor,
		Source:    filename,
		Vehicles:  len(vehicles),
		Timestamp: time.Now(),
	}
	if err := u.auditRepo.LogImport(ctx, audit); err != nil {
		u.log.Warn().Err(err).Msg("failed to record catalog import")
	}

	u.log.Info().Str("actor", actor).Str("source", filename).Int("vehicles", len(vehicles)).Msg("catalog imported")
	return len(vehicles), nil
}

func (u *catalogUseCase) CatalogInfo(ctx context.Context) (string, error) {
	catalog, err := u.vehicleRepo.GetCatalog(ctx)
	if err != nil {
		return "", err
	}
	if catalog == nil || len(catalog.Vehicles) == 0 {
		return "Catalog is empty.", nil
	}
	return fmt.Sprintf("%d vehicles loaded from %s at %s.",
		len(catalog.Vehicles), catalog.Source, catalog.UpdatedAt.Format("2006-01-02 15:04")), nil
}

func (u *catalogUseCase) RecentImports(ctx context.Context, limit int) ([]entity.ImportAudit, error) {
	return u.auditRepo.RecentImports(ctx, limit)
}
