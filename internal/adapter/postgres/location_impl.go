package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/reel-locator/internal/entity"
)

const schema = `
CREATE TABLE IF NOT EXISTS locations (
	id TEXT PRIMARY KEY,
	instagram_url TEXT NOT NULL,
	location_data JSONB NOT NULL,
	distance_km DOUBLE PRECISION,
	geohash TEXT,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_locations_distance ON locations(distance_km);
`

// LocationRepoImpl is the PostgreSQL LocationStore.
type LocationRepoImpl struct {
	db *pgxpool.Pool
}

// NewLocationRepo creates the repository and ensures the table exists.
func NewLocationRepo(ctx context.Context, db *pgxpool.Pool) (*LocationRepoImpl, error) {
	if _, err := db.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &LocationRepoImpl{db: db}, nil
}

// Append inserts one row; a single INSERT is atomic on its own.
func (r *LocationRepoImpl) Append(ctx context.Context, record *entity.LocationRecord) error {
	data, err := json.Marshal(record.Location)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO locations (id, instagram_url, location_data, distance_km, geohash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err = r.db.Exec(ctx, query,
		record.ID,
		record.InstagramURL,
		data,
		record.Location.DistanceKm,
		record.Geohash,
		record.Timestamp,
	)
	return err
}

func (r *LocationRepoImpl) Nearby(ctx context.Context, maxKm float64) ([]*entity.LocationRecord, error) {
	query := `
		SELECT id, instagram_url, location_data, COALESCE(geohash, ''), created_at
		FROM locations
		WHERE distance_km IS NOT NULL AND distance_km <= $1
		ORDER BY distance_km ASC, created_at ASC, id ASC;
	`
	rows, err := r.db.Query(ctx, query, maxKm)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*entity.LocationRecord
	for rows.Next() {
		var rec entity.LocationRecord
		var data []byte
		if err := rows.Scan(&rec.ID, &rec.InstagramURL, &data, &rec.Geohash, &rec.Timestamp); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &rec.Location); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

func (r *LocationRepoImpl) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM locations`).Scan(&n)
	return n, err
}
