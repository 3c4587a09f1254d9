package crop

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/dailyfarm/farmgate/client"
	"github.com/google/go-cmp/cmp"
)

func TestQuantityStep(t *testing.T) {
	tests := []struct {
		unit string
		want float64
	}{
		{"kg", 0.1},
		{"KG", 0.1},
		{" g ", 0.1},
		{"l", 0.1},
		{"ml", 0.1},
		{"piece", 1},
		{"dozen", 1},
		{"bunch", 1},
		{"", 1},
	}

	for _, tt := range tests {
		if got := QuantityStep(tt.unit); got != tt.want {
			t.Errorf("QuantityStep(%q) = %v, want %v", tt.unit, got, tt.want)
		}
	}
}

func TestListParamsValues(t *testing.T) {
	p := ListParams{
		Page:     2,
		Limit:    20,
		Status:   Harvested,
		Search:   "tomato",
		SortBy:   SortPriceAsc,
		MinPrice: 1.5,
		Region:   "valley",
	}

	want := url.Values{
		"page":      {"2"},
		"limit":     {"20"},
		"status":    {"HARVESTED"},
		"search":    {"tomato"},
		"sort_by":   {"price_asc"},
		"min_price": {"1.5"},
		"region":    {"valley"},
	}

	if diff := cmp.Diff(want, p.values()); diff != "" {
		t.Errorf("unexpected query values (-want +got):\n%s", diff)
	}
}

func TestListParamsZeroValuesOmitted(t *testing.T) {
	if got := (ListParams{}).values(); len(got) != 0 {
		t.Errorf("expected an empty query, got %v", got)
	}
}

func TestListSendsFilters(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(Page{
			Items:      []Crop{{ID: 1, Name: "tomatoes"}},
			Total:      1,
			Page:       1,
			TotalPages: 1,
		})
	}))
	defer srv.Close()

	api := client.New(client.Config{BaseURL: srv.URL})

	page, err := List(context.Background(), api, ListParams{Status: Harvested, Search: "tom"})
	if err != nil {
		t.Fatalf("listing crops: %v", err)
	}

	if gotQuery.Get("status") != "HARVESTED" || gotQuery.Get("search") != "tom" {
		t.Errorf("filters not forwarded, got %v", gotQuery)
	}
	if len(page.Items) != 1 || page.Items[0].Name != "tomatoes" {
		t.Errorf("unexpected page %+v", page)
	}
}

func TestCreateValidates(t *testing.T) {
	api := client.New(client.Config{BaseURL: "http://localhost:0"})

	_, err := Create(context.Background(), api, CropNew{Name: "tomatoes"})
	if err == nil {
		t.Fatal("expected missing fields to be rejected before any call")
	}
}
