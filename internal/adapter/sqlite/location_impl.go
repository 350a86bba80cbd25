package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/user/reel-locator/internal/entity"
)

const schema = `
CREATE TABLE IF NOT EXISTS locations (
	id TEXT PRIMARY KEY,
	instagram_url TEXT NOT NULL,
	location_data TEXT NOT NULL,
	lat REAL,
	lon REAL,
	distance_km REAL,
	geohash TEXT,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_locations_distance ON locations(distance_km);
CREATE INDEX IF NOT EXISTS idx_locations_url ON locations(instagram_url);
`

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// LocationStore is the embedded LocationStore. A single connection serialises writers.
type LocationStore struct {
	db *sql.DB
}

// Open opens the database at path with WAL mode enabled and applies the schema.
func Open(ctx context.Context, path string) (*LocationStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &LocationStore{db: db}, nil
}

func (s *LocationStore) Close() error {
	return s.db.Close()
}

// Append inserts the record in its own transaction.
func (s *LocationStore) Append(ctx context.Context, record *entity.LocationRecord) error {
	data, err := json.Marshal(record.Location)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO locations (id, instagram_url, location_data, lat, lon, distance_km, geohash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.InstagramURL,
		string(data),
		nullFloat(record.Location.Lat),
		nullFloat(record.Location.Lon),
		nullFloat(record.Location.DistanceKm),
		record.Geohash,
		record.Timestamp.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert location %s: %w", record.ID, err)
	}
	return tx.Commit()
}

// Nearby returns records within maxKm, closest first; ties keep insertion order.
func (s *LocationStore) Nearby(ctx context.Context, maxKm float64) ([]*entity.LocationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, instagram_url, location_data, geohash, created_at
		FROM locations
		WHERE distance_km IS NOT NULL AND distance_km <= ?
		ORDER BY distance_km ASC, created_at ASC, id ASC`, maxKm)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.LocationRecord
	for rows.Next() {
		var (
			rec       entity.LocationRecord
			data      string
			geohash   sql.NullString
			createdAt string
		)
		if err := rows.Scan(&rec.ID, &rec.InstagramURL, &data, &geohash, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(data), &rec.Location); err != nil {
			return nil, fmt.Errorf("decode location %s: %w", rec.ID, err)
		}
		rec.Geohash = geohash.String
		if rec.Timestamp, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parse timestamp %s: %w", rec.ID, err)
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

func (s *LocationStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM locations`).Scan(&n)
	return n, err
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
