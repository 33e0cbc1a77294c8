package butler

import "time"

// SetNowFunc overrides the cache clock for tests
func (c *VectorCache) SetNowFunc(now func() time.Time) {
	c.now = now
}

// Cache exposes the service cache for tests
func (s *Service) Cache() *VectorCache {
	return s.cache
}
