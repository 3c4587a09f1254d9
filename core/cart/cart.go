package cart

import (
	"github.com/dailyfarm/farmgate/core/crop"
)

// Cart is the server-owned cart as last fetched. Prices and crop data
// inside are denormalized snapshots taken by the upstream at fetch time.
type Cart struct {
	ID         int     `json:"id"`
	UserID     int     `json:"user_id"`
	Items      []Item  `json:"items"`
	TotalPrice float64 `json:"total_price"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

// Item is one cart line. Quantity is fractional for weight-based
// produce and always greater than zero; a line never stores zero.
type Item struct {
	ID         int       `json:"id"`
	CartID     int       `json:"cart_id"`
	CropID     int       `json:"crop_id"`
	Quantity   float64   `json:"quantity"`
	TotalPrice float64   `json:"total_price"`
	Crop       crop.Crop `json:"crop"`
	CreatedAt  string    `json:"created_at"`
	UpdatedAt  string    `json:"updated_at"`
}

type ItemNew struct {
	CropID   int     `json:"crop_id" validate:"required"`
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
}

type ItemUp struct {
	Quantity float64 `json:"quantity" validate:"gt=0"`
}
