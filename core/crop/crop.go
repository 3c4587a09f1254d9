package crop

import "strings"

// Status is the lifecycle of a listing, driven by the farmer.
type Status string

const (
	Growing   Status = "GROWING"
	Harvested Status = "HARVESTED"
	SoldOut   Status = "SOLD_OUT"
)

// FarmerInfo is the denormalized owner snapshot embedded in listings.
type FarmerInfo struct {
	ID           int    `json:"id"`
	FullName     string `json:"full_name"`
	FarmName     string `json:"farm_name,omitempty"`
	FarmLocation string `json:"farm_location,omitempty"`
}

// Crop is a produce listing. The authoritative copy lives upstream;
// the frontend never mutates these fields locally.
type Crop struct {
	ID                  int      `json:"id"`
	FarmerID            int      `json:"farmer_id"`
	Name                string   `json:"name"`
	Description         string   `json:"description,omitempty"`
	PricePerUnit        float64  `json:"price_per_unit"`
	Unit                string   `json:"unit"`
	QuantityAvailable   float64  `json:"quantity_available"`
	Status              Status   `json:"status"`
	PlantingDate        string   `json:"planting_date"`
	ExpectedHarvestDate string   `json:"expected_harvest_date"`
	ActualHarvestDate   string   `json:"actual_harvest_date,omitempty"`
	Temperature         *float64 `json:"temperature,omitempty"`
	Humidity            *float64 `json:"humidity,omitempty"`
	SoilPH              *float64 `json:"soil_ph,omitempty"`
	Images              []string `json:"images"`
	IsActive            bool     `json:"is_active"`
	CreatedAt           string   `json:"created_at"`
	UpdatedAt           string   `json:"updated_at"`

	Farmer        *FarmerInfo `json:"farmer,omitempty"`
	TotalReviews  int         `json:"total_reviews"`
	AverageRating float64     `json:"average_rating"`
	TotalOrders   int         `json:"total_orders"`
}

type CropNew struct {
	Name                string   `json:"name" validate:"required"`
	Description         string   `json:"description"`
	PricePerUnit        float64  `json:"price_per_unit" validate:"required,gt=0"`
	Unit                string   `json:"unit" validate:"required"`
	QuantityAvailable   float64  `json:"quantity_available" validate:"gte=0"`
	PlantingDate        string   `json:"planting_date" validate:"required"`
	ExpectedHarvestDate string   `json:"expected_harvest_date" validate:"required"`
	Temperature         *float64 `json:"temperature,omitempty"`
	Humidity            *float64 `json:"humidity,omitempty"`
	SoilPH              *float64 `json:"soil_ph,omitempty"`
}

type CropUp struct {
	Name                *string  `json:"name,omitempty"`
	Description         *string  `json:"description,omitempty"`
	PricePerUnit        *float64 `json:"price_per_unit,omitempty" validate:"omitempty,gt=0"`
	Unit                *string  `json:"unit,omitempty"`
	QuantityAvailable   *float64 `json:"quantity_available,omitempty" validate:"omitempty,gte=0"`
	PlantingDate        *string  `json:"planting_date,omitempty"`
	ExpectedHarvestDate *string  `json:"expected_harvest_date,omitempty"`
	IsActive            *bool    `json:"is_active,omitempty"`
}

// SensorUp carries the mock monitoring readings shown on the farmer
// dashboard.
type SensorUp struct {
	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
	SoilPH      *float64 `json:"soil_ph,omitempty" validate:"omitempty,gte=0,lte=14"`
}

type StatusUp struct {
	Status            Status `json:"status" validate:"required,oneof=GROWING HARVESTED SOLD_OUT"`
	ActualHarvestDate string `json:"actual_harvest_date,omitempty"`
}

// weight-bearing unit labels sold in fractional quantities.
var weightUnits = map[string]bool{
	"kg": true,
	"g":  true,
	"l":  true,
	"ml": true,
}

// QuantityStep is the minimum orderable increment for a unit label:
// 0.1 for weight-based units, 1 for whole-unit produce. A cart quantity
// below this threshold means removal, never a stored zero.
func QuantityStep(unit string) float64 {
	if weightUnits[strings.ToLower(strings.TrimSpace(unit))] {
		return 0.1
	}
	return 1
}
