package visibility

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBlocks struct {
	of  map[string]map[string]struct{} // blocker -> blocked ids
	by  map[string]map[string]struct{} // blocked -> blocker ids
	err error
}

func newFakeBlocks() *fakeBlocks {
	return &fakeBlocks{
		of: make(map[string]map[string]struct{}),
		by: make(map[string]map[string]struct{}),
	}
}

func (f *fakeBlocks) block(blocker, blocked string) {
	if f.of[blocker] == nil {
		f.of[blocker] = make(map[string]struct{})
	}
	if f.by[blocked] == nil {
		f.by[blocked] = make(map[string]struct{})
	}
	f.of[blocker][blocked] = struct{}{}
	f.by[blocked][blocker] = struct{}{}
}

func (f *fakeBlocks) BlockedBy(ctx context.Context, id string) (map[string]struct{}, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.of[id], nil
}

func (f *fakeBlocks) BlockerOf(ctx context.Context, id string) (map[string]struct{}, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.by[id], nil
}

func TestVisibleCandidates(t *testing.T) {
	ctx := context.Background()

	t.Run("no blocks keeps everyone in order", func(t *testing.T) {
		visible, err := VisibleCandidates(ctx, newFakeBlocks(), "viewer", []string{"a", "b", "c"})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, visible)
	})

	t.Run("block is symmetric", func(t *testing.T) {
		blocks := newFakeBlocks()
		blocks.block("viewer", "bully")

		// bully invisible to viewer...
		visible, err := VisibleCandidates(ctx, blocks, "viewer", []string{"bully", "friend"})
		require.NoError(t, err)
		assert.Equal(t, []string{"friend"}, visible)

		// ...and viewer invisible to bully, even though bully never blocked.
		visible, err = VisibleCandidates(ctx, blocks, "bully", []string{"viewer", "friend"})
		require.NoError(t, err)
		assert.Equal(t, []string{"friend"}, visible)
	})

	t.Run("blocked-by direction also hides", func(t *testing.T) {
		blocks := newFakeBlocks()
		blocks.block("grump", "viewer")

		visible, err := VisibleCandidates(ctx, blocks, "viewer", []string{"grump", "friend"})
		require.NoError(t, err)
		assert.Equal(t, []string{"friend"}, visible)
	})

	t.Run("membership test survives case and whitespace skew", func(t *testing.T) {
		blocks := newFakeBlocks()
		blocks.block("viewer", "bully")

		visible, err := VisibleCandidates(ctx, blocks, " Viewer ", []string{"BULLY", " bully ", "friend"})
		require.NoError(t, err)
		assert.Equal(t, []string{"friend"}, visible)
	})

	t.Run("store error propagates", func(t *testing.T) {
		blocks := newFakeBlocks()
		blocks.err = errors.New("redis down")

		_, err := VisibleCandidates(ctx, blocks, "viewer", []string{"a"})
		assert.Error(t, err)
	})

	t.Run("empty candidate list", func(t *testing.T) {
		visible, err := VisibleCandidates(ctx, newFakeBlocks(), "viewer", nil)
		require.NoError(t, err)
		assert.Empty(t, visible)
	})
}
