package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/torqueup/assistant-api/internal/domain/entity"
	"github.com/torqueup/assistant-api/internal/domain/repository"
)

// ListingUseCase reads the vehicle and parts inventory.
type ListingUseCase interface {
	SearchVehicles(ctx context.Context, query string) ([]entity.Vehicle, error)
	GetAllVehicles(ctx context.Context) ([]entity.Vehicle, error)
	GetVehicle(ctx context.Context, id string) (*entity.Vehicle, error)
	SearchParts(ctx context.Context, query string) ([]entity.Part, error)
	GetAllParts(ctx context.Context) ([]entity.Part, error)

	// InventoryText renders vehicles as a plain-text list for prompts.
	InventoryText(vehicles []entity.Vehicle) string

	// HasVehicles reports whether any vehicles are loaded.
	HasVehicles(ctx context.Context) (bool, error)
}

type listingUseCase struct {
	vehicleRepo repository.VehicleRepository
	partRepo    repository.PartRepository
}

// NewListingUseCase creates a read-side over the inventory repositories.
func NewListingUseCase(vehicleRepo repository.VehicleRepository, partRepo repository.PartRepository) ListingUseCase {
	return &listingUseCase{vehicleRepo: vehicleRepo, partRepo: partRepo}
}

func (u *listingUseCase) SearchVehicles(ctx context.Context, query string) ([]entity.Vehicle, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return u.vehicleRepo.GetAll(ctx)
	}
	return u.vehicleRepo.Search(ctx, query)
}

func (u *listingUseCase) GetAllVehicles(ctx context.Context) ([]entity.Vehicle, error) {
	return u.vehicleRepo.GetAll(ctx)
}

func (u *listingUseCase) GetVehicle(ctx context.Context, id string) (*entity.Vehicle, error) {
	return u.vehicleRepo.GetByID(ctx, id)
}

func (u *listingUseCase) SearchParts(ctx context.Context, query string) ([]entity.Part, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return u.partRepo.GetAll(ctx)
	}
	return u.partRepo.SearchByTitle(ctx, query)
}

func (u *listingUseCase) GetAllParts(ctx context.Context) ([]entity.Part, error) {
	return u.partRepo.GetAll(ctx)
}

// InventoryText groups vehicles by category and renders one numbered line
// per listing, with the attributes the model is allowed to quote.
func (u *listingUseCase) InventoryText(vehicles []entity.Vehicle) string {
	byCategory := make(map[string][]entity.Vehicle)
	var order []string
	for _, v := range vehicles {
		cat := v.Category
		if cat == "" {
			cat = "other"
		}
		if _, seen := byCategory[cat]; !seen {
			order = append(order, cat)
		}
		byCategory[cat] = append(byCategory[cat], v)
	}

	var sb strings.Builder
	for _, cat := range order {
		sb.WriteString(fmt.Sprintf("%s:\n", strings.ToUpper(cat)))
		for i, v := range byCategory[cat] {
			sb.WriteString(fmt.Sprintf("  %d. %s %s", i+1, v.Make, v.Model))
			if v.Year > 0 {
				sb.WriteString(fmt.Sprintf(" (%d)", v.Year))
			}
			sb.WriteString(fmt.Sprintf(" - $%.0f", v.Price))
			var attrs []string
			if v.BodyStyle != "" {
				attrs = append(attrs, v.BodyStyle)
			}
			if v.Drivetrain != "" {
				attrs = append(attrs, v.Drivetrain)
			}
			if v.SeatingCapacity > 0 {
				attrs = append(attrs, fmt.Sprintf("%d seats", v.SeatingCapacity))
			}
			if len(attrs) > 0 {
				sb.WriteString(" [" + strings.Join(attrs, ", ") + "]")
			}
			if v.Description != "" {
				sb.WriteString("\n     " + v.Description)
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (u *listingUseCase) HasVehicles(ctx context.Context) (bool, error) {
	vehicles, err := u.vehicleRepo.GetAll(ctx)
	if err != nil {
		return false, err
	}
	return len(vehicles) > 0, nil
}
