package location

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandermate/nearby/internal/geo"
	"github.com/wandermate/nearby/internal/storage"
	apperrors "github.com/wandermate/nearby/pkg/errors"
)

func newTestStore() *RedisStore {
	return NewRedisStore(storage.NewMemory(), 5, 30*time.Minute)
}

var sanJose = geo.Coordinate{Lat: 9.9333, Lon: -84.0833}

func TestUpsertAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	require.NoError(t, store.Upsert(ctx, "Amy", sanJose))

	record, err := store.Get(ctx, "amy")
	require.NoError(t, err)
	assert.Equal(t, "amy", record.OwnerID, "owner id is normalized")
	assert.Equal(t, sanJose, record.Coordinate)
	assert.NotEmpty(t, record.Geohash)
	assert.False(t, record.UpdatedAt.IsZero())
}

func TestUpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	require.NoError(t, store.Upsert(ctx, "amy", sanJose))
	moved := geo.Coordinate{Lat: 10.0, Lon: -84.2}
	require.NoError(t, store.Upsert(ctx, "amy", moved))

	record, err := store.Get(ctx, "amy")
	require.NoError(t, err)
	assert.Equal(t, moved, record.Coordinate)

	// The old cell no longer surfaces the stale position.
	box := geo.BoundingBox(sanJose, 500)
	records, err := store.Query(ctx, box)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestUpsertRejectsBadCoordinates(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	err := store.Upsert(ctx, "amy", geo.Coordinate{Lat: 91, Lon: 0})
	assert.ErrorIs(t, err, apperrors.ErrInvalidLatitude)

	err = store.Upsert(ctx, "amy", geo.Coordinate{Lat: 0, Lon: -181})
	assert.ErrorIs(t, err, apperrors.ErrInvalidLongitude)

	_, err = store.Get(ctx, "amy")
	assert.ErrorIs(t, err, apperrors.ErrLocationNotFound)
}

func TestGetMissing(t *testing.T) {
	store := newTestStore()

	_, err := store.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, apperrors.ErrLocationNotFound)
}

func TestQuery(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	require.NoError(t, store.Upsert(ctx, "near", geo.Coordinate{Lat: 9.95, Lon: -84.10}))
	require.NoError(t, store.Upsert(ctx, "far", geo.Coordinate{Lat: 10.5, Lon: -84.0}))

	box := geo.BoundingBox(sanJose, 16093)
	records, err := store.Query(ctx, box)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "near", records[0].OwnerID)
}

func TestQueryEmpty(t *testing.T) {
	store := newTestStore()

	records, err := store.Query(context.Background(), geo.BoundingBox(sanJose, 1000))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestQueryLargeRadiusCoarsensCells(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	// ~40 km out: outside the precision-5 neighbor block, inside a
	// 60-mile box. The query must coarsen its cells rather than miss.
	require.NoError(t, store.Upsert(ctx, "roamer", geo.Coordinate{Lat: 10.29, Lon: -84.0833}))

	box := geo.BoundingBox(sanJose, 96561)
	records, err := store.Query(ctx, box)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "roamer", records[0].OwnerID)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	require.NoError(t, store.Upsert(ctx, "amy", sanJose))
	require.NoError(t, store.Delete(ctx, "amy"))

	_, err := store.Get(ctx, "amy")
	assert.ErrorIs(t, err, apperrors.ErrLocationNotFound)

	records, err := store.Query(ctx, geo.BoundingBox(sanJose, 1000))
	require.NoError(t, err)
	assert.Empty(t, records)
}
