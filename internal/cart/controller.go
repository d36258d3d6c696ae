// Package cart manages the shopper's local cart: an ordered list of line items
// persisted as one JSON entry in a Storage, with a change notification after
// every successful write.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"storefront/internal/events"
	"storefront/internal/models"
)

// Controller mutates the persisted cart and broadcasts cart_updated events.
// It re-reads storage on every call, so it holds no cart state of its own.
type Controller struct {
	storage    Storage
	dispatcher events.Dispatcher
	notifier   Notifier
	logger     *zap.Logger
}

// NewController wires a controller. A nil dispatcher gets a private one and a
// nil notifier falls back to logging.
func NewController(storage Storage, dispatcher events.Dispatcher, notifier Notifier, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dispatcher == nil {
		dispatcher = events.NewInMemoryDispatcher()
	}
	if notifier == nil {
		notifier = LogNotifier{Logger: logger}
	}
	return &Controller{storage: storage, dispatcher: dispatcher, notifier: notifier, logger: logger}
}

// Cart returns the persisted line items. Absent or unreadable data yields an empty cart.
func (c *Controller) Cart() []models.CartItem {
	raw, ok, err := c.storage.GetItem(StorageKey)
	if err != nil {
		c.logger.Warn("error reading cart from storage", zap.Error(err))
		return []models.CartItem{}
	}
	if !ok || raw == "" {
		return []models.CartItem{}
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		c.logger.Warn("discarding corrupt cart", zap.Error(err))
		return []models.CartItem{}
	}
	return normalize(items)
}

// normalize drops lines without an id or with a quantity below one, and merges
// repeated ids into the first line holding them.
func normalize(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		if item.ID == "" || item.Quantity < 1 {
			continue
		}
		if i, ok := index[item.ID]; ok {
			out[i].Quantity += item.Quantity
			continue
		}
		index[item.ID] = len(out)
		out = append(out, item)
	}
	return out
}

// Add puts one unit of p in the cart. An existing line is incremented; a new
// line snapshots the product's current name, price and image.
func (c *Controller) Add(p models.Product) error {
	items := c.Cart()

	found := false
	for i := range items {
		if items[i].ID == p.ID {
			items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		items = append(items, models.CartItem{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Image:    p.Image,
			Quantity: 1,
		})
	}

	if err := c.save(items); err != nil {
		return err
	}
	c.notifier.Notify(fmt.Sprintf("Added 1 x %s to cart!", p.Name), LevelSuccess)
	return nil
}

// Remove deletes the whole line for productID. Nothing is written when the
// product is not in the cart.
func (c *Controller) Remove(productID string) error {
	items := c.Cart()
	kept := items[:0:0]
	for _, item := range items {
		if item.ID != productID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return nil
	}

	if err := c.save(kept); err != nil {
		return err
	}
	c.notifier.Notify("Item removed from cart.", LevelInfo)
	return nil
}

// Clear empties the cart.
func (c *Controller) Clear() error {
	if err := c.save([]models.CartItem{}); err != nil {
		return err
	}
	c.notifier.Notify("Cart cleared successfully.", LevelInfo)
	return nil
}

// OnChange calls fn with the new cart after every successful write, including
// writes made by other clients when Follow is running.
func (c *Controller) OnChange(fn func(items []models.CartItem)) (unsubscribe func()) {
	return c.dispatcher.Subscribe(events.EventCartUpdated, func(_ context.Context, e events.Event) error {
		items, _ := e.Payload.([]models.CartItem)
		fn(items)
		return nil
	})
}

// Follow republishes the cart whenever another client changes it, until ctx is done.
func (c *Controller) Follow(ctx context.Context, w Watcher) error {
	keys, err := w.Watch(ctx)
	if err != nil {
		return err
	}
	for key := range keys {
		if key == StorageKey {
			c.broadcast(c.Cart())
		}
	}
	return ctx.Err()
}

func (c *Controller) save(items []models.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		c.notifier.Notify("Could not update cart.", LevelError)
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := c.storage.SetItem(StorageKey, string(data)); err != nil {
		c.logger.Warn("error saving cart to storage", zap.Error(err))
		c.notifier.Notify("Could not update cart.", LevelError)
		return fmt.Errorf("failed to save cart: %w", err)
	}
	c.broadcast(items)
	return nil
}

func (c *Controller) broadcast(items []models.CartItem) {
	snapshot := make([]models.CartItem, len(items))
	copy(snapshot, items)
	err := c.dispatcher.Publish(context.Background(), events.Event{
		Type:      events.EventCartUpdated,
		Timestamp: time.Now().UTC(),
		Payload:   snapshot,
	})
	if err != nil {
		c.logger.Warn("cart listener failed", zap.Error(err))
	}
}

// Total is the sum of price times quantity over items.
func Total(items []models.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// Count is the number of units in items, as shown on the cart badge.
func Count(items []models.CartItem) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}
	return n
}
