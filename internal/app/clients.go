package app

import (
	"fmt"

	"github.com/yungbote/neurobridge-questionbank/internal/clients/redis"
	"github.com/yungbote/neurobridge-questionbank/internal/platform/logger"
)

type Clients struct {
	PreviewCache redis.PreviewCache
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis (optional; a NopCache is returned when REDIS_ADDR is unset)
	cache, err := redis.NewPreviewCache(cfg.PreviewCache, log)
	if err != nil {
		return Clients{}, fmt.Errorf("init preview cache: %w", err)
	}
	return Clients{PreviewCache: cache}, nil
}

func (c Clients) Close() error {
	if c.PreviewCache == nil {
		return nil
	}
	return c.PreviewCache.Close()
}
