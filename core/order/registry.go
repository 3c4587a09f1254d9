package order

import (
	"sync"
	"time"

	"github.com/dailyfarm/farmgate/client"
	"github.com/dailyfarm/farmgate/core/cart"
	"github.com/sirupsen/logrus"
)

// Registry keeps one checkout flow per browser session, so a retried
// checkout request finds the partitions already placed by the previous
// attempt. Entries idle past the expiry window are evicted in the
// background, matching the cart registry's lifecycle.
type Registry struct {
	api    *client.Client
	log    logrus.FieldLogger
	expiry time.Duration

	mu    sync.Mutex
	flows map[string]*entry
	done  chan struct{}
}

type entry struct {
	flow       *Flow
	lastAccess time.Time
}

func NewRegistry(api *client.Client, log logrus.FieldLogger, expiry time.Duration) *Registry {
	r := &Registry{
		api:    api,
		log:    log,
		expiry: expiry,
		flows:  make(map[string]*entry),
		done:   make(chan struct{}),
	}
	go r.refresh()
	return r
}

// For returns the flow bound to the given session and cart store,
// creating it on first use.
func (r *Registry) For(sessionID string, carts *cart.Store) *Flow {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.flows[sessionID]
	if !ok {
		e = &entry{flow: NewFlow(r.api, carts, r.log)}
		r.flows[sessionID] = e
	}
	e.lastAccess = time.Now()
	return e.flow
}

// Drop forgets the flow for a session that ended.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.flows, sessionID)
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
	for id, e := range r.flows {
		if time.Since(e.lastAccess) > r.expiry {
			delete(r.flows, id)
		}
	}
}
