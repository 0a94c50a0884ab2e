package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandermate/nearby/internal/storage"
)

func intPtr(v int) *int { return &v }

func TestSaveAndFetchByIDs(t *testing.T) {
	ctx := context.Background()
	store := NewRedisStore(storage.NewMemory())

	amy := TravelerProfile{
		ID:                "Amy",
		DisplayName:       "Amy",
		OriginCountryCode: "CR",
		BirthDate:         "1996-03-15",
		Gender:            "Female",
		TravelStyle:       "Backpacker",
		Interests:         []string{"hiking", "street food"},
		AvatarURL:         "https://cdn/amy.png",
	}
	require.NoError(t, store.Save(ctx, amy))

	profiles, err := store.FetchByIDs(ctx, []string{"amy"})
	require.NoError(t, err)
	require.Len(t, profiles, 1)

	got := profiles[0]
	assert.Equal(t, "amy", got.ID, "id comes back normalized")
	assert.Equal(t, "Amy", got.DisplayName)
	assert.Equal(t, "CR", got.OriginCountryCode)
	assert.Equal(t, "1996-03-15", got.BirthDate)
	assert.Equal(t, []string{"hiking", "street food"}, got.Interests)
	assert.Nil(t, got.Age)
}

func TestSavePrecomputedAge(t *testing.T) {
	ctx := context.Background()
	store := NewRedisStore(storage.NewMemory())

	require.NoError(t, store.Save(ctx, TravelerProfile{ID: "bob", Age: intPtr(31)}))

	profiles, err := store.FetchByIDs(ctx, []string{"bob"})
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	require.NotNil(t, profiles[0].Age)
	assert.Equal(t, 31, *profiles[0].Age)
}

func TestFetchByIDsSkipsMissing(t *testing.T) {
	ctx := context.Background()
	store := NewRedisStore(storage.NewMemory())

	require.NoError(t, store.Save(ctx, TravelerProfile{ID: "amy", DisplayName: "Amy"}))

	profiles, err := store.FetchByIDs(ctx, []string{"ghost", "amy", "phantom"})
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "amy", profiles[0].ID)
}

func TestFetchByIDsEmpty(t *testing.T) {
	store := NewRedisStore(storage.NewMemory())

	profiles, err := store.FetchByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, profiles)
}
