package crop

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/dailyfarm/farmgate/client"
	"github.com/dailyfarm/farmgate/validate"
)

type SortOption string

const (
	SortLatest    SortOption = "latest"
	SortPriceAsc  SortOption = "price_asc"
	SortPriceDesc SortOption = "price_desc"
	SortRating    SortOption = "rating"
)

// ListParams are the catalog filters the market page exposes. Zero
// values are omitted from the query.
type ListParams struct {
	Page     int
	Limit    int
	Status   Status
	FarmerID int
	Search   string
	SortBy   SortOption
	MinPrice float64
	MaxPrice float64
	Region   string
}

func (p ListParams) values() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Status != "" {
		q.Set("status", string(p.Status))
	}
	if p.FarmerID > 0 {
		q.Set("farmer_id", strconv.Itoa(p.FarmerID))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.SortBy != "" {
		q.Set("sort_by", string(p.SortBy))
	}
	if p.MinPrice > 0 {
		q.Set("min_price", strconv.FormatFloat(p.MinPrice, 'f', -1, 64))
	}
	if p.MaxPrice > 0 {
		q.Set("max_price", strconv.FormatFloat(p.MaxPrice, 'f', -1, 64))
	}
	if p.Region != "" {
		q.Set("region", p.Region)
	}
	return q
}

// Page is one page of the paginated catalog.
type Page struct {
	Items      []Crop `json:"items"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
}

func List(ctx context.Context, api *client.Client, p ListParams) (Page, error) {
	var out Page
	if err := api.Get(ctx, "/crops", p.values(), &out); err != nil {
		return Page{}, fmt.Errorf("listing crops: %w", err)
	}
	return out, nil
}

func Fetch(ctx context.Context, api *client.Client, id int) (Crop, error) {
	var out Crop
	if err := api.Get(ctx, fmt.Sprintf("/crops/%d", id), nil, &out); err != nil {
		return Crop{}, fmt.Errorf("fetching crop[%d]: %w", id, err)
	}
	return out, nil
}

func Create(ctx context.Context, api *client.Client, nc CropNew) (Crop, error) {
	if err := validate.Check(nc); err != nil {
		return Crop{}, err
	}

	var out Crop
	if err := api.Post(ctx, "/crops", nc, &out); err != nil {
		return Crop{}, fmt.Errorf("creating crop: %w", err)
	}
	return out, nil
}

func Update(ctx context.Context, api *client.Client, id int, up CropUp) (Crop, error) {
	if err := validate.Check(up); err != nil {
		return Crop{}, err
	}

	var out Crop
	if err := api.Put(ctx, fmt.Sprintf("/crops/%d", id), up, &out); err != nil {
		return Crop{}, fmt.Errorf("updating crop[%d]: %w", id, err)
	}
	return out, nil
}

func Delete(ctx context.Context, api *client.Client, id int) error {
	if err := api.Delete(ctx, fmt.Sprintf("/crops/%d", id), nil); err != nil {
		return fmt.Errorf("deleting crop[%d]: %w", id, err)
	}
	return nil
}

// UpdateSensor pushes fresh monitoring readings for the dashboard.
func UpdateSensor(ctx context.Context, api *client.Client, id int, up SensorUp) (Crop, error) {
	if err := validate.Check(up); err != nil {
		return Crop{}, err
	}

	var out Crop
	if err := api.Put(ctx, fmt.Sprintf("/crops/%d/sensor", id), up, &out); err != nil {
		return Crop{}, fmt.Errorf("updating sensor data of crop[%d]: %w", id, err)
	}
	return out, nil
}

func UpdateStatus(ctx context.Context, api *client.Client, id int, up StatusUp) (Crop, error) {
	if err := validate.Check(up); err != nil {
		return Crop{}, err
	}

	var out Crop
	if err := api.Put(ctx, fmt.Sprintf("/crops/%d/status", id), up, &out); err != nil {
		return Crop{}, fmt.Errorf("updating status of crop[%d]: %w", id, err)
	}
	return out, nil
}
