package order

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dailyfarm/farmgate/client"
	"github.com/dailyfarm/farmgate/core/cart"
	"github.com/dailyfarm/farmgate/validate"
	"github.com/sirupsen/logrus"
)

// ErrEmptyCart means checkout was attempted against an empty cart.
var ErrEmptyCart = errors.New("no items to checkout")

// errSellerCartChanged flags a partition whose cart lines no longer
// match the order already placed for that seller. Re-submitting would
// duplicate the placed order and skipping would silently drop the new
// lines, so the partition fails until the cart matches what was ordered.
var errSellerCartChanged = errors.New("items changed for a seller whose order is already placed; remove the changed items and retry")

// CheckoutInput is the delivery information entered at checkout.
type CheckoutInput struct {
	DeliveryAddress string `json:"delivery_address" validate:"required"`
	DeliveryContact string `json:"delivery_contact" validate:"required"`
	DeliveryMessage string `json:"delivery_message,omitempty"`
}

// Partition is the subset of cart lines owned by one farmer. An order
// is scoped to a single farmer, so each partition becomes exactly one
// order-creation call.
type Partition struct {
	FarmerID int
	Items    []cart.Item
}

// PartitionBySeller groups cart lines by farmer identity, keeping
// partitions in the order each farmer first appears in the cart.
func PartitionBySeller(items []cart.Item) []Partition {
	var parts []Partition
	index := make(map[int]int)

	for _, it := range items {
		fid := it.Crop.FarmerID
		i, ok := index[fid]
		if !ok {
			i = len(parts)
			index[fid] = i
			parts = append(parts, Partition{FarmerID: fid})
		}
		parts[i].Items = append(parts[i].Items, it)
	}
	return parts
}

// Failure reports one partition whose order creation failed.
type Failure struct {
	FarmerID int    `json:"farmer_id"`
	Detail   string `json:"detail"`
}

// Summary is the per-partition outcome of a checkout attempt. The
// upstream has no cross-order transactions, so partial success is a
// real state and is reported as such, never collapsed into one error.
type Summary struct {
	Orders      []Order   `json:"orders"`
	Failures    []Failure `json:"failures,omitempty"`
	CartCleared bool      `json:"cart_cleared"`
}

// Flow runs the order submission for one cart. It remembers which
// seller partitions were already placed, so a retry after partial
// failure never re-submits a seller's order. Each partition also gets
// an idempotency key generated once and reused across retries.
type Flow struct {
	api  *client.Client
	cart *cart.Store
	log  logrus.FieldLogger

	mu        sync.Mutex
	placed    map[int]Order
	submitted map[int][]cart.Item
	keys      map[int]string
}

func NewFlow(api *client.Client, carts *cart.Store, log logrus.FieldLogger) *Flow {
	return &Flow{
		api:       api,
		cart:      carts,
		log:       log,
		placed:    make(map[int]Order),
		submitted: make(map[int][]cart.Item),
		keys:      make(map[int]string),
	}
}

type result struct {
	farmerID int
	order    Order
	err      error
}

// Submit partitions the cart by seller and issues one order-creation
// call per partition, all concurrently. The cart is cleared only when
// every partition succeeded; otherwise it is left untouched and the
// summary names the partitions that failed. A retry skips partitions
// already placed, but only while their cart lines still match the order
// that was placed; a drifted partition is reported failed so its new
// lines are never silently discarded with the cleared cart.
func (f *Flow) Submit(ctx context.Context, in CheckoutInput) (Summary, error) {
	if err := validate.Check(in); err != nil {
		return Summary{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	snap := f.cart.Snapshot()
	if snap.State != cart.Ready {
		if err := f.cart.Load(ctx); err != nil {
			return Summary{}, fmt.Errorf("loading cart for checkout: %w", err)
		}
		snap = f.cart.Snapshot()
	}

	if len(snap.Cart.Items) == 0 {
		return Summary{}, ErrEmptyCart
	}

	parts := PartitionBySeller(snap.Cart.Items)

	results := make([]result, len(parts))
	var wg sync.WaitGroup

	for i, p := range parts {
		if ord, ok := f.placed[p.FarmerID]; ok {
			if !sameItems(p.Items, f.submitted[p.FarmerID]) {
				results[i] = result{farmerID: p.FarmerID, err: errSellerCartChanged}
				continue
			}
			results[i] = result{farmerID: p.FarmerID, order: ord}
			continue
		}

		key, ok := f.keys[p.FarmerID]
		if !ok {
			key = validate.GenerateID()
			f.keys[p.FarmerID] = key
		}

		wg.Add(1)
		go func(i int, p Partition, key string) {
			defer wg.Done()
			ord, err := f.submitPartition(ctx, p, in, key)
			results[i] = result{farmerID: p.FarmerID, order: ord, err: err}
		}(i, p, key)
	}

	wg.Wait()

	var sum Summary
	for i, res := range results {
		if res.err != nil {
			f.log.WithFields(logrus.Fields{
				"farmer_id": res.farmerID,
				"message":   res.err,
			}).Error("seller order failed")

			detail := client.Detail(res.err)
			if errors.Is(res.err, errSellerCartChanged) {
				detail = res.err.Error()
			}

			sum.Failures = append(sum.Failures, Failure{
				FarmerID: res.farmerID,
				Detail:   detail,
			})
			continue
		}

		f.placed[res.farmerID] = res.order
		f.submitted[res.farmerID] = parts[i].Items
		sum.Orders = append(sum.Orders, res.order)
	}

	if len(sum.Failures) > 0 {
		return sum, fmt.Errorf("%d of %d seller orders failed", len(sum.Failures), len(parts))
	}

	// Full success: the cart is spent. A failed clear leaves the orders
	// in place and only the stale cart to reconcile on next load.
	if err := f.cart.Clear(ctx); err != nil {
		f.log.WithField("message", err).Warn("orders placed but cart clear failed")
	} else {
		sum.CartCleared = true
	}

	f.placed = make(map[int]Order)
	f.submitted = make(map[int][]cart.Item)
	f.keys = make(map[int]string)

	return sum, nil
}

// sameItems reports whether two line sets order the same quantities of
// the same crops, ignoring line identity.
func sameItems(a, b []cart.Item) bool {
	if len(a) != len(b) {
		return false
	}

	qty := make(map[int]float64, len(a))
	for _, it := range a {
		qty[it.CropID] += it.Quantity
	}
	for _, it := range b {
		qty[it.CropID] -= it.Quantity
	}
	for _, q := range qty {
		if q != 0 {
			return false
		}
	}
	return true
}

func (f *Flow) submitPartition(ctx context.Context, p Partition, in CheckoutInput, key string) (Order, error) {
	on := OrderNew{
		FarmerID:        p.FarmerID,
		Items:           make([]ItemNew, 0, len(p.Items)),
		DeliveryAddress: in.DeliveryAddress,
		DeliveryContact: in.DeliveryContact,
		DeliveryMessage: in.DeliveryMessage,
	}

	for _, it := range p.Items {
		on.Items = append(on.Items, ItemNew{
			CropID:       it.CropID,
			Quantity:     it.Quantity,
			PricePerUnit: it.Crop.PricePerUnit,
		})
	}

	var ord Order
	err := f.api.Post(ctx, "/orders", on, &ord, client.WithHeader(client.IdempotencyHeader, key))
	if err != nil {
		return Order{}, fmt.Errorf("creating order for farmer[%d]: %w", p.FarmerID, err)
	}
	return ord, nil
}
