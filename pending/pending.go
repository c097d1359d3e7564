package pending

import (
	"log"
	"sync"
	"time"

	"agni/models"
)

// Cache is the transient mapping from orderId to its order snapshot while a
// UPI payment awaits confirmation. The durable orders collection stays
// authoritative; this exists to keep the short verification window off the
// database. Entries leave the cache on explicit deletion or when the sweep
// finds them older than the TTL.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]models.Order

	ttl      time.Duration
	interval time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

func NewCache(ttl, interval time.Duration) *Cache {
	return &Cache{
		entries:  make(map[string]models.Order),
		ttl:      ttl,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (c *Cache) Put(order models.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[order.OrderID] = order
}

func (c *Cache) Get(orderID string) (models.Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	o, ok := c.entries[orderID]
	return o, ok
}

// Confirm mutates the cached entry's status under the write lock, deriving
// paymentConfirmed from it. Returns false when the order is not cached.
func (c *Cache) Confirm(orderID, status string) (models.Order, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.entries[orderID]
	if !ok {
		return models.Order{}, false
	}
	o.Status = status
	o.PaymentConfirmed = status == models.StatusCompleted
	c.entries[orderID] = o
	return o, true
}

func (c *Cache) Delete(orderID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, orderID)
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Sweep evicts entries older than the TTL. Pending entries are the ones the
// bound exists for; confirmed and failed entries are aged out on the same
// threshold so the map cannot grow without limit. Returns the eviction count.
func (c *Cache) Sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	for id, o := range c.entries {
		if now.Sub(o.CreatedAt) > c.ttl {
			delete(c.entries, id)
			evicted++
		}
	}
	return evicted
}

// Run sweeps on the configured interval until Stop is called. Meant to be
// launched from main as a goroutine; it never blocks request handling.
func (c *Cache) Run() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := c.Sweep(time.Now()); n > 0 {
				log.Printf("pending cache: evicted %d stale entries", n)
			}
		case <-c.stop:
			return
		}
	}
}

func (c *Cache) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}
