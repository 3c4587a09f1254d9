package cart

import (
	"sync"
	"time"

	"github.com/dailyfarm/farmgate/client"
	"github.com/sirupsen/logrus"
)

// Registry hands out one Store per browser session, so two parallel
// requests from the same browser mutate through the same mutex and
// apply in call order. Entries idle past the expiry window are evicted
// in the background; tokens that expire upstream or are simply
// abandoned do not accumulate stores.
type Registry struct {
	api    *client.Client
	log    logrus.FieldLogger
	expiry time.Duration

	mu     sync.Mutex
	stores map[string]*entry
	done   chan struct{}
}

type entry struct {
	store      *Store
	lastAccess time.Time
}

func NewRegistry(api *client.Client, log logrus.FieldLogger, expiry time.Duration) *Registry {
	r := &Registry{
		api:    api,
		log:    log,
		expiry: expiry,
		stores: make(map[string]*entry),
		done:   make(chan struct{}),
	}
	go r.refresh()
	return r
}

// For returns the store bound to the given session, creating it on
// first use.
func (r *Registry) For(sessionID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.stores[sessionID]
	if !ok {
		e = &entry{store: NewStore(r.api, r.log)}
		r.stores[sessionID] = e
	}
	e.lastAccess = time.Now()
	return e.store
}

// Drop forgets the store for a session that ended.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, sessionID)
}

// Close stops the background eviction loop.
func (r *Registry) Close() {
	close(r.done)
}

func (r *Registry) refresh() {
	t := time.NewTicker(time.Minute)
	defer t.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-t.C:
		}

		r.evict()
	}
}

func (r *Registry) evict() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.stores {
		if time.Since(e.lastAccess) > r.expiry {
			delete(r.stores, id)
		}
	}
}
