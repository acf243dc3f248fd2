package fetcher

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hadithhub/internal/platform/logger"
	"hadithhub/pkg/models"
)

// CachedEdition is one row of the editions table.
type CachedEdition struct {
	EditionID string
	Entries   []models.RawEntry
	FetchedAt time.Time
}

// Cache stores raw edition payloads in sqlite so later sessions (and the
// mirror exporter) can reuse them without hitting the provider.
type Cache struct {
	DB *sql.DB
}

func NewCache(db *sql.DB) *Cache {
	return &Cache{DB: db}
}

// Get returns the cached edition, or nil when absent.
func (c *Cache) Get(ctx context.Context, editionID string) (*CachedEdition, error) {
	row := c.DB.QueryRowContext(ctx, `
		SELECT payload, fetched_at
		FROM editions
		WHERE edition_id = ?
	`, editionID)

	var (
		payload   []byte
		fetchedAt time.Time
	)
	if err := row.Scan(&payload, &fetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan edition %s: %w", editionID, err)
	}

	entries, err := decodeEntries(payload)
	if err != nil {
		return nil, fmt.Errorf("decode cached %s: %w", editionID, err)
	}
	return &CachedEdition{EditionID: editionID, Entries: entries, FetchedAt: fetchedAt}, nil
}

// Put upserts the raw entries for editionID.
func (c *Cache) Put(ctx context.Context, editionID string, entries []models.RawEntry, at time.Time) error {
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", editionID, err)
	}

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO editions (edition_id, payload, entry_count, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(edition_id) DO UPDATE SET
		  payload = excluded.payload,
		  entry_count = excluded.entry_count,
		  fetched_at = excluded.fetched_at
	`, editionID, payload, len(entries), at.UTC()); err != nil {
		return fmt.Errorf("exec upsert for %s: %w", editionID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// List returns the ids of all cached editions with their entry counts.
func (c *Cache) List(ctx context.Context) (map[string]int, error) {
	rows, err := c.DB.QueryContext(ctx, `SELECT edition_id, entry_count FROM editions ORDER BY edition_id`)
	if err != nil {
		return nil, fmt.Errorf("list editions: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			id    string
			count int
		)
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out[id] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func decodeEntries(payload []byte) ([]models.RawEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var entries []models.RawEntry
	if err := dec.Decode(&entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// CachedFetcher decorates a Fetcher with the sqlite cache. Fresh rows are
// served directly; on a fetch failure a stale row is served before the error
// is surfaced.
type CachedFetcher struct {
	Next  Fetcher
	Cache *Cache
	TTL   time.Duration
	Now   func() time.Time
	log   *logger.Logger
}

func NewCachedFetcher(next Fetcher, cache *Cache, ttl time.Duration, log *logger.Logger) *CachedFetcher {
	return &CachedFetcher{Next: next, Cache: cache, TTL: ttl, Now: time.Now, log: logger.OrNop(log)}
}

func (c *CachedFetcher) Fetch(ctx context.Context, editionID string) ([]models.RawEntry, error) {
	cached, err := c.Cache.Get(ctx, editionID)
	if err != nil {
		// a broken cache row must not block the provider
		c.log.Warn("edition cache read failed", "edition", editionID, "error", err)
		cached = nil
	}
	if cached != nil && (c.TTL <= 0 || c.Now().Sub(cached.FetchedAt) < c.TTL) {
		return cached.Entries, nil
	}

	entries, fetchErr := c.Next.Fetch(ctx, editionID)
	if fetchErr != nil {
		if cached != nil {
			c.log.Warn("serving stale edition", "edition", editionID, "fetched_at", cached.FetchedAt, "error", fetchErr)
			return cached.Entries, nil
		}
		return nil, fetchErr
	}

	if err := c.Cache.Put(ctx, editionID, entries, c.Now()); err != nil {
		c.log.Warn("edition cache write failed", "edition", editionID, "error", err)
	}
	return entries, nil
}
