// Package cart holds the client-side cart core: the local cache that is
// the in-process source of truth, and the sync adapter that propagates
// mutations to the server on a best-effort basis.
package cart

import (
	"encoding/json"
	"log"
	"sync"

	"flipmart/internal/client/localstore"
	cartdom "flipmart/internal/domain/cart"
)

const storageKey = "cart"

// Op identifies the kind of cache mutation, as seen by sync hooks.
type Op int

const (
	// OpAdd is a delta: quantity was increased by Quantity (a new or
	// existing line). Carried as a delta on the wire, like the web
	// client's add-to-cart POST.
	OpAdd Op = iota
	// OpSet carries the absolute resulting quantity for the line.
	OpSet
	// OpRemove deletes the line.
	OpRemove
	// OpClear empties the whole cart.
	OpClear
)

// Mutation describes the resulting state of one cache mutation.
type Mutation struct {
	Op        Op
	ProductID string
	Quantity  int
}

// Cache is the in-process source of truth for "what is currently in the
// cart", independent of identity state. Mutations apply synchronously;
// the durable write and the sync hook run asynchronously and are never
// awaited, so a mutation always appears to succeed immediately.
type Cache struct {
	store    *localstore.Store
	dispatch func(func())

	mu     sync.Mutex
	lines  map[string]int
	loaded bool
	hooks  []func(Mutation)
}

func NewCache(store *localstore.Store) *Cache {
	return &Cache{
		store:    store,
		dispatch: func(fn func()) { go fn() },
		lines:    map[string]int{},
	}
}

// NewCacheWithDispatch lets tests run the asynchronous work inline.
func NewCacheWithDispatch(store *localstore.Store, dispatch func(func())) *Cache {
	c := NewCache(store)
	if dispatch != nil {
		c.dispatch = dispatch
	}
	return c
}

// OnMutation registers a hook invoked (asynchronously) after every
// mutation. Register before Load.
func (c *Cache) OnMutation(fn func(Mutation)) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	c.hooks = append(c.hooks, fn)
	c.mu.Unlock()
}

// Load restores the cart from the durable store. Called once at startup
// before any mutation; malformed stored data resets to an empty cart
// rather than failing. Calling Load again is a no-op.
func (c *Cache) Load() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return
	}
	c.loaded = true

	raw, ok, err := c.store.Get(storageKey)
	if err != nil {
		log.Printf("[cart_cache] load failed: %v (starting empty)", err)
		return
	}
	if !ok {
		return
	}

	var stored []cartdom.Line
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		log.Printf("[cart_cache] stored cart is malformed: %v (resetting)", err)
		c.lines = map[string]int{}
		return
	}
	for _, l := range cartdom.Normalize(stored) {
		c.lines[l.ProductID] = l.Quantity
	}
}

// Add inserts productID with quantity 1, or increments an existing line.
func (c *Cache) Add(productID string) {
	c.mu.Lock()
	c.lines[productID]++
	c.afterMutationLocked(Mutation{Op: OpAdd, ProductID: productID, Quantity: 1})
	c.mu.Unlock()
}

// Increase increments the quantity for an existing line. Absent id is a no-op.
func (c *Cache) Increase(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	qty, ok := c.lines[productID]
	if !ok {
		return
	}
	c.lines[productID] = qty + 1
	c.afterMutationLocked(Mutation{Op: OpSet, ProductID: productID, Quantity: qty + 1})
}

// Decrease decrements the quantity; reaching 0 removes the line instead
// of storing zero. Absent id is a no-op.
func (c *Cache) Decrease(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	qty, ok := c.lines[productID]
	if !ok {
		return
	}
	if qty <= 1 {
		delete(c.lines, productID)
		c.afterMutationLocked(Mutation{Op: OpRemove, ProductID: productID})
		return
	}
	c.lines[productID] = qty - 1
	c.afterMutationLocked(Mutation{Op: OpSet, ProductID: productID, Quantity: qty - 1})
}

// Remove deletes the line unconditionally. Removing an absent id still
// succeeds (and still signals the sync hook, which the server treats as
// a no-op).
func (c *Cache) Remove(productID string) {
	c.mu.Lock()
	delete(c.lines, productID)
	c.afterMutationLocked(Mutation{Op: OpRemove, ProductID: productID})
	c.mu.Unlock()
}

// Clear empties the cart.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.lines = map[string]int{}
	c.afterMutationLocked(Mutation{Op: OpClear})
	c.mu.Unlock()
}

// Merge folds remote lines into the cache: shared product ids sum their
// quantities, remote-only lines are adopted, local-only lines stay
// untouched. The result is persisted but no sync hooks fire; merge is
// reconciliation, not a user mutation.
func (c *Cache) Merge(remote []cartdom.Line) {
	c.mu.Lock()
	for _, l := range cartdom.Normalize(remote) {
		c.lines[l.ProductID] += l.Quantity
	}
	c.persistLocked()
	c.mu.Unlock()
}

// Lines returns a normalized snapshot of the cart.
func (c *Cache) Lines() cartdom.Lines {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Quantity returns the current quantity for productID (0 when absent).
func (c *Cache) Quantity(productID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lines[productID]
}

func (c *Cache) snapshotLocked() cartdom.Lines {
	lines := make([]cartdom.Line, 0, len(c.lines))
	for pid, qty := range c.lines {
		lines = append(lines, cartdom.Line{ProductID: pid, Quantity: qty})
	}
	return cartdom.Normalize(lines)
}

// afterMutationLocked persists the new state and signals hooks, both
// asynchronously. Neither outcome is awaited and neither failure rolls
// the in-memory state back.
func (c *Cache) afterMutationLocked(m Mutation) {
	c.persistLocked()

	hooks := append([](func(Mutation))(nil), c.hooks...)
	c.dispatch(func() {
		for _, fn := range hooks {
			fn(m)
		}
	})
}

func (c *Cache) persistLocked() {
	snap := c.snapshotLocked()
	c.dispatch(func() {
		payload, err := json.Marshal(snap)
		if err != nil {
			log.Printf("[cart_cache] marshal failed: %v", err)
			return
		}
		if err := c.store.Set(storageKey, string(payload)); err != nil {
			log.Printf("[cart_cache] persist failed: %v", err)
		}
	})
}
