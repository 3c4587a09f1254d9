package order

import (
	"context"
	"fmt"

	"github.com/dailyfarm/farmgate/client"
	"github.com/dailyfarm/farmgate/validate"
)

// Status is the server-driven order state machine. The frontend only
// reads it; transitions happen upstream.
type Status string

const (
	Pending   Status = "PENDING"
	Confirmed Status = "CONFIRMED"
	Shipped   Status = "SHIPPED"
	Delivered Status = "DELIVERED"
	Cancelled Status = "CANCELLED"
)

// CropInfo is the listing snapshot embedded in an order line.
type CropInfo struct {
	ID     int      `json:"id"`
	Name   string   `json:"name"`
	Images []string `json:"images"`
	Unit   string   `json:"unit"`
}

type Item struct {
	ID           int      `json:"id"`
	OrderID      int      `json:"order_id"`
	CropID       int      `json:"crop_id"`
	Quantity     float64  `json:"quantity"`
	PricePerUnit float64  `json:"price_per_unit"`
	TotalPrice   float64  `json:"total_price"`
	Crop         CropInfo `json:"crop"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

// Order is immutable once submitted except for the status field. Totals
// come from the server response; the frontend never computes them
// authoritatively.
type Order struct {
	ID              int     `json:"id"`
	ConsumerID      int     `json:"consumer_id"`
	FarmerID        int     `json:"farmer_id"`
	Items           []Item  `json:"items"`
	TotalPrice      float64 `json:"total_price"`
	Status          Status  `json:"status"`
	DeliveryAddress string  `json:"delivery_address"`
	DeliveryContact string  `json:"delivery_contact"`
	TrackingNumber  string  `json:"tracking_number,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
	ConfirmedAt     string  `json:"confirmed_at,omitempty"`
	ShippedAt       string  `json:"shipped_at,omitempty"`
	DeliveredAt     string  `json:"delivered_at,omitempty"`
	CancelledAt     string  `json:"cancelled_at,omitempty"`
}

type ItemNew struct {
	CropID       int     `json:"crop_id" validate:"required"`
	Quantity     float64 `json:"quantity" validate:"gt=0"`
	PricePerUnit float64 `json:"price_per_unit" validate:"gt=0"`
}

// OrderNew is one order-creation payload, always scoped to a single
// farmer.
type OrderNew struct {
	FarmerID        int       `json:"farmer_id" validate:"required"`
	Items           []ItemNew `json:"items" validate:"required,min=1,dive"`
	DeliveryAddress string    `json:"delivery_address" validate:"required"`
	DeliveryContact string    `json:"delivery_contact" validate:"required"`
	DeliveryMessage string    `json:"delivery_message,omitempty"`
}

type StatusUp struct {
	Status         Status `json:"status" validate:"required,oneof=PENDING CONFIRMED SHIPPED DELIVERED CANCELLED"`
	TrackingNumber string `json:"tracking_number,omitempty"`
}

func List(ctx context.Context, api *client.Client) ([]Order, error) {
	var out []Order
	if err := api.Get(ctx, "/orders", nil, &out); err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return out, nil
}

func Fetch(ctx context.Context, api *client.Client, id int) (Order, error) {
	var out Order
	if err := api.Get(ctx, fmt.Sprintf("/orders/%d", id), nil, &out); err != nil {
		return Order{}, fmt.Errorf("fetching order[%d]: %w", id, err)
	}
	return out, nil
}

func Cancel(ctx context.Context, api *client.Client, id int) (Order, error) {
	var out Order
	if err := api.Post(ctx, fmt.Sprintf("/orders/%d/cancel", id), nil, &out); err != nil {
		return Order{}, fmt.Errorf("cancelling order[%d]: %w", id, err)
	}
	return out, nil
}

// UpdateStatus is the farmer-side transition (confirm, ship, deliver).
func UpdateStatus(ctx context.Context, api *client.Client, id int, up StatusUp) (Order, error) {
	if err := validate.Check(up); err != nil {
		return Order{}, err
	}

	var out Order
	if err := api.Put(ctx, fmt.Sprintf("/orders/%d/status", id), up, &out); err != nil {
		return Order{}, fmt.Errorf("updating status of order[%d]: %w", id, err)
	}
	return out, nil
}
