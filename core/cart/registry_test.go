package cart

import (
	"testing"
	"time"

	"github.com/dailyfarm/farmgate/client"
)

func TestRegistryEvictsIdleStores(t *testing.T) {
	api := client.New(client.Config{BaseURL: "http://localhost:0"})
	r := NewRegistry(api, testLog(), time.Millisecond)
	defer r.Close()

	st := r.For("tok-1")

	time.Sleep(5 * time.Millisecond)
	r.evict()

	if got := r.For("tok-1"); got == st {
		t.Error("expected the idle store to be evicted")
	}
}

func TestRegistryKeepsActiveStores(t *testing.T) {
	api := client.New(client.Config{BaseURL: "http://localhost:0"})
	r := NewRegistry(api, testLog(), time.Hour)
	defer r.Close()

	st := r.For("tok-1")
	r.evict()

	if got := r.For("tok-1"); got != st {
		t.Error("expected the active store to survive eviction")
	}
}

func TestRegistryDrop(t *testing.T) {
	api := client.New(client.Config{BaseURL: "http://localhost:0"})
	r := NewRegistry(api, testLog(), time.Hour)
	defer r.Close()

	st := r.For("tok-1")
	r.Drop("tok-1")

	if got := r.For("tok-1"); got == st {
		t.Error("expected a fresh store after the session was dropped")
	}
}
