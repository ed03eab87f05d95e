package cache

import (
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/logger"
)

// Initialize initializes the cache system and returns the shared instance
func Initialize(log *logger.Logger) Cache {
	InitializeInMemoryCache()
	log.Infow("cache system initialized", "type", "inmemory")
	return GetInMemoryCache()
}
