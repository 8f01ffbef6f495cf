package crowding

import (
	"context"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/travigo/crowding/pkg/ctdf"
	"github.com/travigo/crowding/pkg/topology"
)

type Fetcher interface {
	FetchCrowding(ctx context.Context, lineID string, stationID string, direction ctdf.Direction) (*ctdf.RawCrowdingRecord, error)
}

// ResultCache stores live results. Get returns nil, nil on a miss.
type ResultCache interface {
	Get(ctx context.Context, selection ctdf.LineSelection) (*ctdf.CrowdingResult, error)
	Set(ctx context.Context, result *ctdf.CrowdingResult) error
}

type Option func(*Service)

func WithCache(resultCache ResultCache) Option {
	return func(s *Service) {
		s.cache = resultCache
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

type Service struct {
	catalog *topology.Catalog
	fetcher Fetcher
	cache   ResultCache
	now     func() time.Time
}

func NewService(catalog *topology.Catalog, fetcher Fetcher, opts ...Option) *Service {
	service := &Service{
		catalog: catalog,
		fetcher: fetcher,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service
}

func (s *Service) Catalog() *topology.Catalog {
	return s.catalog
}

func (s *Service) GetCrowding(ctx context.Context, selection ctdf.LineSelection) (*ctdf.CrowdingResult, error) {
	line, err := s.catalog.Lookup(selection.LineID)
	if err != nil {
		return nil, &ServiceError{Kind: ErrorKindUnknownLine, Selection: selection, Err: err}
	}

	if !selection.Direction.Valid() {
		return nil, &ServiceError{
			Kind:      ErrorKindInvalidDirection,
			Selection: selection,
			Err:       fmt.Errorf("unsupported direction %q", selection.Direction),
		}
	}

	station, err := line.Station(selection.StationID)
	if err != nil {
		return nil, &ServiceError{Kind: ErrorKindUnknownStation, Selection: selection, Err: err}
	}

	logger := log.With().
		Str("line", selection.LineID).
		Str("station", selection.StationID).
		Str("direction", string(selection.Direction)).
		Logger()

	if cached := s.cachedResult(ctx, selection); cached != nil {
		logger.Debug().Msg("Serving cached crowding result")
		return cached, nil
	}

	raw, err := s.fetcher.FetchCrowding(ctx, line.ID, station.ID, selection.Direction)
	if err != nil {
		return nil, upstreamServiceError(selection, err)
	}

	normalized, err := Normalize(raw, line.CarriageCount)
	if err != nil {
		return nil, &ServiceError{Kind: ErrorKindMalformedPayload, Selection: selection, Err: err}
	}

	if normalized.LengthMismatch {
		logger.Warn().
			Int("expected", line.CarriageCount).
			Int("received", len(normalized.Carriages)).
			Msg("Upstream carriage count does not match line")
	}
	if len(normalized.SkippedTrains) > 0 {
		logger.Warn().Strs("vehicles", normalized.SkippedTrains).Msg("Skipped malformed trains in upstream payload")
	}
	if normalized.ClampedCount > 0 {
		logger.Warn().Int("clamped", normalized.ClampedCount).Msg("Upstream sent out of range carriage values")
	}

	result := &ctdf.CrowdingResult{
		Selection:      selection,
		LineName:       line.Name,
		StationName:    station.Name,
		Colour:         line.Colour,
		Carriages:      MapCarriages(line, normalized),
		Freshness:      ctdf.DataFreshnessLive,
		VehicleID:      normalized.VehicleID,
		LengthMismatch: normalized.LengthMismatch,
		GeneratedAt:    s.now(),
		UpstreamTime:   normalized.UpstreamTime,
		DataSource: &ctdf.DataSource{
			OriginalFormat: "tfl-json",
			Provider:       "GB-TfL",
			Dataset:        fmt.Sprintf("crowding/%s/live", station.ID),
			Identifier:     raw.URL,
		},
	}

	if normalized.NoData {
		result.Freshness = ctdf.DataFreshnessUnavailable
		logger.Debug().Msg("No crowding data available")

		return result, nil
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, result); err != nil {
			logger.Warn().Err(err).Msg("Failed to store crowding result in cache")
		}
	}

	return result, nil
}

func (s *Service) cachedResult(ctx context.Context, selection ctdf.LineSelection) *ctdf.CrowdingResult {
	if s.cache == nil {
		return nil
	}

	cached, err := s.cache.Get(ctx, selection)
	if err != nil {
		log.Warn().Err(err).Str("selection", selection.String()).Msg("Failed to read crowding result from cache")
		return nil
	}
	if cached == nil || cached.Freshness != ctdf.DataFreshnessLive {
		return nil
	}

	stale := *cached
	stale.Carriages = nil
	if err := copier.CopyWithOption(&stale.Carriages, cached.Carriages, copier.Option{DeepCopy: true}); err != nil {
		log.Warn().Err(err).Str("selection", selection.String()).Msg("Failed to copy cached crowding result")
		return nil
	}
	if cached.DataSource != nil {
		dataSource := *cached.DataSource
		stale.DataSource = &dataSource
	}
	stale.Freshness = ctdf.DataFreshnessStale

	return &stale
}
