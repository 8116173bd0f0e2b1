package entity

import "time"

// Vehicle is one car listing. The front-end sends an inventory snapshot of
// these with every chat turn; the catalog importer fills the same shape.
type Vehicle struct {
	ID              string  `json:"id"`
	Make            string  `json:"make"`
	Model           string  `json:"model"`
	Year            int     `json:"year,omitempty"`
	Price           float64 `json:"price"`
	BodyStyle       string  `json:"body_style"`
	Drivetrain      string  `json:"drivetrain"`
	SeatingCapacity int     `json:"seating_capacity"`
	Category        string  `json:"category"`
	FuelConsumption string  `json:"fuel_consumption"`
	Description     string  `json:"description,omitempty"`
}

// VehicleCatalog is a full inventory snapshot, replaced wholesale on import.
type VehicleCatalog struct {
	Vehicles  []Vehicle
	UpdatedAt time.Time
	Source    string // original file name
}
