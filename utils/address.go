package utils

import "sync"

// AddressCache remembers the last page address a watcher observed.
type AddressCache struct {
	mu   sync.Mutex
	last string
}

// Observe records addr and returns true if it differs from the previous observation.
func (c *AddressCache) Observe(addr string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if addr == c.last {
		return false
	}
	c.last = addr
	return true
}

// Last returns the most recently observed address.
func (c *AddressCache) Last() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}
