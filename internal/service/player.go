package service

import (
	"context"
	"fmt"
	"mkworld-overlay/internal/api"
	"mkworld-overlay/internal/cache"
	"mkworld-overlay/internal/config"
	"mkworld-overlay/internal/constants"
	"mkworld-overlay/internal/domain"
	"mkworld-overlay/internal/metrics"
	"mkworld-overlay/internal/repository"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

type PlayerFetcher interface {
	GetPlayerDetails(ctx context.Context, name string, variant domain.Variant) (*api.PlayerDetailsResponse, error)
}

type HistoryStore interface {
	Enabled() bool
	Record(ctx context.Context, snapshot domain.MmrSnapshot) error
	ListByKey(ctx context.Context, cacheKey string, limit int) ([]domain.MmrSnapshot, error)
}

type PlayerService struct {
	lounge  PlayerFetcher
	cache   *cache.Store
	history HistoryStore
	flights singleflight.Group
	timeout time.Duration
	clock   clockwork.Clock
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func NewPlayerService(lounge PlayerFetcher, store *cache.Store, history HistoryStore, cfg *config.Config, clock clockwork.Clock, m *metrics.Metrics, logger zerolog.Logger) *PlayerService {
	if m == nil {
		m = metrics.Nop()
	}
	return &PlayerService{
		lounge:  lounge,
		cache:   store,
		history: history,
		timeout: cfg.UpstreamTimeout,
		clock:   clock,
		metrics: m,
		logger:  logger,
	}
}

// GetPlayer serves a fresh cached record or fetches, reshapes and caches a
// new one. Concurrent misses on the same key share a single lounge request.
// Failures are returned as-is and never touch the cache.
func (s *PlayerService) GetPlayer(ctx context.Context, name, variant string) (domain.PlayerRecord, error) {
	query := domain.PlayerQuery{Name: strings.TrimSpace(name), Variant: domain.ParseVariant(variant)}
	key := domain.Key(query.Name, query.Variant)
	log := s.logger.With().Str("name", query.Name).Str("cache_key", key).Logger()

	if rec, ok := s.cache.Lookup(key); ok {
		s.metrics.CacheLookups.WithLabelValues("hit").Inc()
		log.Info().Msg("cache hit")
		return rec, nil
	}
	s.metrics.CacheLookups.WithLabelValues("miss").Inc()

	// leader is written inside the flight and read only after its result
	// arrives on ch.
	leader := false
	ch := s.flights.DoChan(key, func() (any, error) {
		leader = true
		return s.fetch(ctx, key, query, log)
	})

	select {
	case res := <-ch:
		if res.Shared && !leader {
			s.metrics.FlightsShared.Inc()
		}
		if res.Err != nil {
			log.Error().Err(res.Err).Msg("failed to fetch player")
			return domain.PlayerRecord{}, res.Err
		}
		return res.Val.(domain.PlayerRecord), nil
	case <-ctx.Done():
		log.Warn().Err(ctx.Err()).Msg("caller gave up waiting for lounge")
		return domain.PlayerRecord{}, &api.Error{Kind: api.ErrNetwork, Err: ctx.Err()}
	}
}

// fetch runs once per key at a time. It is detached from the first caller's
// cancellation so other waiters are not failed by it.
func (s *PlayerService) fetch(ctx context.Context, key string, query domain.PlayerQuery, log zerolog.Logger) (domain.PlayerRecord, error) {
	if rec, ok := s.cache.Lookup(key); ok {
		return rec, nil
	}

	apiCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	log.Info().Str("variant", string(query.Variant)).Msg("fetching player from lounge")
	resp, err := s.lounge.GetPlayerDetails(apiCtx, query.Name, query.Variant)
	if err != nil {
		return domain.PlayerRecord{}, err
	}

	rec := ToPlayerRecord(resp)
	if evicted := s.cache.Store(key, rec); evicted > 0 {
		log.Debug().Int("evicted", evicted).Msg("swept expired cache entries")
	}

	s.recordSnapshot(apiCtx, key, query, rec, log)

	log.Info().Msg("player fetched successfully")
	return rec, nil
}

func (s *PlayerService) recordSnapshot(ctx context.Context, key string, query domain.PlayerQuery, rec domain.PlayerRecord, log zerolog.Logger) {
	if s.history == nil || !s.history.Enabled() {
		return
	}

	dbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.DatabaseTimeout)
	defer cancel()

	err := s.history.Record(dbCtx, domain.MmrSnapshot{
		CacheKey:  key,
		Name:      rec.Name,
		Variant:   query.Variant,
		Mmr:       rec.Mmr,
		Rank:      rec.Rank,
		LastDiff:  rec.LastDiff,
		FetchedAt: s.clock.Now(),
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to record mmr snapshot")
	}
}

// GetHistory lists recorded fetches for a player, newest first.
func (s *PlayerService) GetHistory(ctx context.Context, name, variant string, limit int) ([]domain.MmrSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if limit <= 0 {
		limit = constants.HistoryDefaultLimit
	}
	if limit > constants.HistoryMaxLimit {
		limit = constants.HistoryMaxLimit
	}

	if s.history == nil || !s.history.Enabled() {
		return nil, repository.ErrHistoryDisabled
	}

	key := domain.CacheKey(name, variant)
	snapshots, err := s.history.ListByKey(ctx, key, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("cache_key", key).Msg("failed to list mmr history")
		return nil, fmt.Errorf("failed to list mmr history: %w", err)
	}
	return snapshots, nil
}
