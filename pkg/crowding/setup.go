package crowding

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/travigo/crowding/pkg/cachedresults"
	"github.com/travigo/crowding/pkg/config"
	"github.com/travigo/crowding/pkg/redis_client"
	"github.com/travigo/crowding/pkg/tfl"
	"github.com/travigo/crowding/pkg/topology"
)

// NewServiceFromConfig builds a Service on the bundled catalogue and the TfL client, connecting
// to Redis for the result cache when an address is configured
func NewServiceFromConfig(ctx context.Context, cfg *config.Config) (*Service, error) {
	catalog, err := topology.Default()
	if err != nil {
		return nil, err
	}

	client := tfl.NewClient(cfg.ClientConfig())

	var opts []Option
	if cfg.CacheEnabled() {
		if err := redis_client.Connect(ctx); err != nil {
			return nil, err
		}

		resultCache := cachedresults.NewRedis(redis_client.Client)
		resultCache.TTL = cfg.CacheTTL
		resultCache.Jitter = cfg.CacheJitter

		opts = append(opts, WithCache(resultCache))

		log.Info().Str("address", cfg.RedisAddress).Msg("Crowding result cache enabled")
	}

	log.Debug().
		Str("base", cfg.TfLAPIBase).
		Str("worst_case_latency", client.Policy().WorstCaseLatency().String()).
		Int("lines", len(catalog.Lines())).
		Msg("Crowding service ready")

	return NewService(catalog, client, opts...), nil
}
