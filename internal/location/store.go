package location

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mmcloughlin/geohash"
	"github.com/redis/go-redis/v9"

	"github.com/wandermate/nearby/internal/geo"
	"github.com/wandermate/nearby/internal/identity"
	"github.com/wandermate/nearby/internal/storage"
	apperrors "github.com/wandermate/nearby/pkg/errors"
)

// Record is one traveler's last reported true position. The owner
// overwrites it on every location update.
type Record struct {
	OwnerID    string         `json:"owner_id"`
	Coordinate geo.Coordinate `json:"coordinate"`
	Geohash    string         `json:"geohash"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Store reads and writes location records.
type Store interface {
	Upsert(ctx context.Context, ownerID string, coord geo.Coordinate) error
	Get(ctx context.Context, ownerID string) (*Record, error)
	Query(ctx context.Context, box geo.Bounds) ([]Record, error)
	Delete(ctx context.Context, ownerID string) error
}

// RedisStore keeps records as JSON under location:{id} with a TTL and
// indexes owners into geohash cell sets under geocell:{hash}. The cell
// index is a loose pre-filter; Query additionally trims to the box and
// callers still re-check exact distance.
type RedisStore struct {
	redis     storage.RedisClient
	precision uint
	ttl       time.Duration
}

func NewRedisStore(redisClient storage.RedisClient, precision uint, ttl time.Duration) *RedisStore {
	return &RedisStore{
		redis:     redisClient,
		precision: precision,
		ttl:       ttl,
	}
}

func (s *RedisStore) Upsert(ctx context.Context, ownerID string, coord geo.Coordinate) error {
	if !coord.Valid() {
		if coord.Lat < -90 || coord.Lat > 90 {
			return apperrors.ErrInvalidLatitude
		}
		return apperrors.ErrInvalidLongitude
	}
	ownerID = identity.Normalize(ownerID)
	cell := geohash.EncodeWithPrecision(coord.Lat, coord.Lon, s.precision)

	record := Record{
		OwnerID:    ownerID,
		Coordinate: coord,
		Geohash:    cell,
		UpdatedAt:  time.Now().UTC(),
	}

	// Drop the owner from the previous cell when they moved across a
	// cell boundary, so the index does not accumulate ghosts.
	if prev, err := s.Get(ctx, ownerID); err == nil && prev.Geohash != cell {
		if err := s.redis.SRem(ctx, s.cellKey(prev.Geohash), ownerID); err != nil {
			return fmt.Errorf("failed to drop stale cell membership: %w", err)
		}
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal location: %w", err)
	}

	if err := s.redis.Set(ctx, s.locationKey(ownerID), data, s.ttl); err != nil {
		return fmt.Errorf("failed to store location: %w", err)
	}

	if err := s.redis.SAdd(ctx, s.cellKey(cell), ownerID); err != nil {
		return fmt.Errorf("failed to index location: %w", err)
	}
	if err := s.redis.Expire(ctx, s.cellKey(cell), s.ttl); err != nil {
		return fmt.Errorf("failed to expire cell index: %w", err)
	}

	return nil
}

func (s *RedisStore) Get(ctx context.Context, ownerID string) (*Record, error) {
	data, err := s.redis.Get(ctx, s.locationKey(identity.Normalize(ownerID)))
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.ErrLocationNotFound
		}
		return nil, fmt.Errorf("failed to get location: %w", err)
	}

	var record Record
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal location: %w", err)
	}

	return &record, nil
}

func (s *RedisStore) Query(ctx context.Context, box geo.Bounds) ([]Record, error) {
	seen := make(map[string]struct{})
	ids := make([]string, 0)

	for _, cell := range s.coveringCells(box) {
		members, err := s.redis.SMembers(ctx, s.cellKey(cell))
		if err != nil {
			return nil, fmt.Errorf("failed to read cell %s: %w", cell, err)
		}
		for _, id := range members {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	if len(ids) == 0 {
		return []Record{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.locationKey(id)
	}

	values, err := s.redis.MGet(ctx, keys...)
	if err != nil {
		return nil, fmt.Errorf("failed to batch-read locations: %w", err)
	}

	records := make([]Record, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Expired record still referenced by a cell set.
			continue
		}
		var record Record
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			continue
		}
		if box.Contains(record.Coordinate) {
			records = append(records, record)
		}
	}

	return records, nil
}

func (s *RedisStore) Delete(ctx context.Context, ownerID string) error {
	ownerID = identity.Normalize(ownerID)

	if record, err := s.Get(ctx, ownerID); err == nil {
		if err := s.redis.SRem(ctx, s.cellKey(record.Geohash), ownerID); err != nil {
			return fmt.Errorf("failed to deindex location: %w", err)
		}
	}

	return s.redis.Del(ctx, s.locationKey(ownerID))
}

// coveringCells returns the geohash cells whose union contains box: the
// cell of the box center plus its 8 neighbors, coarsened below the
// configured precision when the box outgrows the 3x3 block.
func (s *RedisStore) coveringCells(box geo.Bounds) []string {
	center := box.Center()

	precision := s.precision
	for precision > 1 {
		cell := geohash.EncodeWithPrecision(center.Lat, center.Lon, precision)
		cb := geohash.BoundingBox(cell)
		latSpan := cb.MaxLat - cb.MinLat
		lonSpan := cb.MaxLng - cb.MinLng
		// The box center can sit at a cell edge, so only one cell of
		// guaranteed coverage extends past it on each side.
		if latSpan*2 >= box.MaxLat-box.MinLat && lonSpan*2 >= box.MaxLon-box.MinLon {
			break
		}
		precision--
	}

	cell := geohash.EncodeWithPrecision(center.Lat, center.Lon, precision)
	return append([]string{cell}, geohash.Neighbors(cell)...)
}

func (s *RedisStore) locationKey(ownerID string) string {
	return fmt.Sprintf("location:%s", ownerID)
}

func (s *RedisStore) cellKey(cell string) string {
	return fmt.Sprintf("geocell:%s", cell)
}
