package bridge

import (
	"net"
	"sync"
)

// ConnLimiter caps how many game connections are open at once.
type ConnLimiter struct {
	mu       sync.Mutex
	count    int
	maxTotal int
}

// NewConnLimiter creates a limiter. maxTotal <= 0 means unlimited.
func NewConnLimiter(maxTotal int) *ConnLimiter {
	return &ConnLimiter{maxTotal: maxTotal}
}

// TryAcquire takes a connection slot, or returns false when all are in use.
func (c *ConnLimiter) TryAcquire() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxTotal > 0 && c.count >= c.maxTotal {
		return false
	}
	c.count++
	return true
}

// Release returns a slot.
func (c *ConnLimiter) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.count > 0 {
		c.count--
	}
}

// Count returns the number of open connections.
func (c *ConnLimiter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// extractIP extracts the IP address from a remote address string (ip:port format).
func extractIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr // Return as-is if can't split
	}
	return host
}
