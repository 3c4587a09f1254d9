package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dailyfarm/farmgate/client"
)

func TestUpdate(t *testing.T) {
	var gotFields map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/users/me" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewDecoder(r.Body).Decode(&gotFields)
		json.NewEncoder(w).Encode(User{
			ID:       5,
			FullName: "Sam G. Grower",
			UserType: TypeCustomer,
		})
	}))
	defer srv.Close()

	api := client.New(client.Config{BaseURL: srv.URL})

	name := "Sam G. Grower"
	u, err := Update(context.Background(), api, Up{FullName: &name})
	if err != nil {
		t.Fatalf("updating profile: %v", err)
	}

	if u.FullName != name {
		t.Errorf("expected the updated name back, got %q", u.FullName)
	}
	if len(gotFields) != 1 || gotFields["full_name"] != name {
		t.Errorf("expected only full_name in the payload, got %v", gotFields)
	}
}
