package review

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/dailyfarm/farmgate/client"
	"github.com/dailyfarm/farmgate/validate"
)

type AuthorInfo struct {
	ID           int    `json:"id"`
	FullName     string `json:"full_name"`
	ProfileImage string `json:"profile_image,omitempty"`
}

type CropInfo struct {
	ID     int      `json:"id"`
	Name   string   `json:"name"`
	Images []string `json:"images"`
}

type Review struct {
	ID        int        `json:"id"`
	UserID    int        `json:"user_id"`
	CropID    int        `json:"crop_id"`
	OrderID   int        `json:"order_id"`
	Rating    float64    `json:"rating"`
	Content   string     `json:"content"`
	User      AuthorInfo `json:"user"`
	Crop      CropInfo   `json:"crop"`
	CreatedAt string     `json:"created_at"`
	UpdatedAt string     `json:"updated_at"`
}

// ReviewNew is scoped to a crop and the order it was bought through.
type ReviewNew struct {
	CropID  int     `json:"crop_id" validate:"required"`
	OrderID int     `json:"order_id" validate:"required"`
	Rating  float64 `json:"rating" validate:"gte=1,lte=5"`
	Content string  `json:"content" validate:"required"`
}

type ReviewUp struct {
	Rating  *float64 `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5"`
	Content *string  `json:"content,omitempty"`
}

type Page struct {
	Items      []Review `json:"items"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	TotalPages int      `json:"total_pages"`
}

func Create(ctx context.Context, api *client.Client, nr ReviewNew) (Review, error) {
	if err := validate.Check(nr); err != nil {
		return Review{}, err
	}

	var out Review
	if err := api.Post(ctx, "/reviews", nr, &out); err != nil {
		return Review{}, fmt.Errorf("creating review: %w", err)
	}
	return out, nil
}

func Update(ctx context.Context, api *client.Client, id int, up ReviewUp) (Review, error) {
	if err := validate.Check(up); err != nil {
		return Review{}, err
	}

	var out Review
	if err := api.Put(ctx, fmt.Sprintf("/reviews/%d", id), up, &out); err != nil {
		return Review{}, fmt.Errorf("updating review[%d]: %w", id, err)
	}
	return out, nil
}

func Delete(ctx context.Context, api *client.Client, id int) error {
	if err := api.Delete(ctx, fmt.Sprintf("/reviews/%d", id), nil); err != nil {
		return fmt.Errorf("deleting review[%d]: %w", id, err)
	}
	return nil
}

func ListByCrop(ctx context.Context, api *client.Client, cropID, page, limit int) (Page, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var out Page
	if err := api.Get(ctx, fmt.Sprintf("/crops/%d/reviews", cropID), q, &out); err != nil {
		return Page{}, fmt.Errorf("listing reviews of crop[%d]: %w", cropID, err)
	}
	return out, nil
}
