package classpath

import "time"

// SetClock replaces the time source used for ResolvedAt.
func (c *Cache) SetClock(now func() time.Time) {
	c.now = now
}
