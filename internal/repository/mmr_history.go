package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mkworld-overlay/internal/domain"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

var ErrHistoryDisabled = errors.New("mmr history is disabled")

const insertSnapshot = `
INSERT INTO mmr_snapshots (id, cache_key, name, variant, mmr, rank, last_diff, fetched_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

const listSnapshots = `
SELECT id, cache_key, name, variant, mmr, rank, last_diff, fetched_at
FROM mmr_snapshots
WHERE cache_key = ?
ORDER BY fetched_at DESC
LIMIT ?`

// MMRHistoryRepository keeps one row per successful lounge fetch. A nil db
// turns writes into no-ops and reads into ErrHistoryDisabled.
type MMRHistoryRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMMRHistoryRepository(sqlDB *sql.DB, logger zerolog.Logger) *MMRHistoryRepository {
	return &MMRHistoryRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// Enabled reports whether a database is attached. A disabled repository
// accepts writes as no-ops and refuses reads.
func (r *MMRHistoryRepository) Enabled() bool {
	return r.db != nil
}

func (r *MMRHistoryRepository) Record(ctx context.Context, snapshot domain.MmrSnapshot) error {
	if r.db == nil {
		return nil
	}

	id := snapshot.ID
	if id == "" {
		var err error
		id, err = gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}
	}

	var mmr sql.NullFloat64
	if snapshot.Mmr != nil {
		mmr = sql.NullFloat64{Float64: *snapshot.Mmr, Valid: true}
	}
	var lastDiff sql.NullInt64
	if snapshot.LastDiff != nil {
		lastDiff = sql.NullInt64{Int64: int64(*snapshot.LastDiff), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, insertSnapshot,
		id,
		snapshot.CacheKey,
		snapshot.Name,
		string(snapshot.Variant),
		mmr,
		snapshot.Rank,
		lastDiff,
		snapshot.FetchedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert mmr snapshot: %w", err)
	}

	r.logger.Debug().Str("id", id).Str("cache_key", snapshot.CacheKey).Msg("mmr snapshot recorded")
	return nil
}

func (r *MMRHistoryRepository) ListByKey(ctx context.Context, cacheKey string, limit int) ([]domain.MmrSnapshot, error) {
	if r.db == nil {
		return nil, ErrHistoryDisabled
	}

	rows, err := r.db.QueryContext(ctx, listSnapshots, cacheKey, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query mmr snapshots: %w", err)
	}
	defer rows.Close()

	result := []domain.MmrSnapshot{}
	for rows.Next() {
		var (
			s         domain.MmrSnapshot
			variant   string
			mmr       sql.NullFloat64
			lastDiff  sql.NullInt64
			fetchedAt time.Time
		)
		if err := rows.Scan(&s.ID, &s.CacheKey, &s.Name, &variant, &mmr, &s.Rank, &lastDiff, &fetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan mmr snapshot: %w", err)
		}
		s.Variant = domain.Variant(variant)
		if mmr.Valid {
			v := mmr.Float64
			s.Mmr = &v
		}
		if lastDiff.Valid {
			v := int(lastDiff.Int64)
			s.LastDiff = &v
		}
		s.FetchedAt = fetchedAt
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read mmr snapshots: %w", err)
	}
	return result, nil
}
