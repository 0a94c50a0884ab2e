package block

import (
	"context"
	"fmt"

	"github.com/wandermate/nearby/internal/identity"
	"github.com/wandermate/nearby/internal/storage"
	apperrors "github.com/wandermate/nearby/pkg/errors"
)

// Store answers the two directional block queries. Storage is
// directional (blocker → blocked) but both directions are written on
// every block so each read stays a single set lookup.
type Store interface {
	// BlockedBy returns the identities that id has blocked.
	BlockedBy(ctx context.Context, id string) (map[string]struct{}, error)
	// BlockerOf returns the identities that have blocked id.
	BlockerOf(ctx context.Context, id string) (map[string]struct{}, error)
}

// Writer is the mutation side, used by the block API endpoints.
type Writer interface {
	Block(ctx context.Context, blocker, blocked string) error
	Unblock(ctx context.Context, blocker, blocked string) error
}

// RedisStore keeps block:of:{id} (ids this user blocked) and
// block:by:{id} (ids that blocked this user).
type RedisStore struct {
	redis storage.RedisClient
}

func NewRedisStore(redisClient storage.RedisClient) *RedisStore {
	return &RedisStore{redis: redisClient}
}

func (s *RedisStore) Block(ctx context.Context, blocker, blocked string) error {
	blocker = identity.Normalize(blocker)
	blocked = identity.Normalize(blocked)
	if blocker == blocked {
		return apperrors.ErrSelfBlock
	}

	if err := s.redis.SAdd(ctx, ofKey(blocker), blocked); err != nil {
		return fmt.Errorf("failed to record block: %w", err)
	}
	if err := s.redis.SAdd(ctx, byKey(blocked), blocker); err != nil {
		return fmt.Errorf("failed to record reverse block: %w", err)
	}
	return nil
}

func (s *RedisStore) Unblock(ctx context.Context, blocker, blocked string) error {
	blocker = identity.Normalize(blocker)
	blocked = identity.Normalize(blocked)

	if err := s.redis.SRem(ctx, ofKey(blocker), blocked); err != nil {
		return fmt.Errorf("failed to remove block: %w", err)
	}
	if err := s.redis.SRem(ctx, byKey(blocked), blocker); err != nil {
		return fmt.Errorf("failed to remove reverse block: %w", err)
	}
	return nil
}

func (s *RedisStore) BlockedBy(ctx context.Context, id string) (map[string]struct{}, error) {
	return s.memberSet(ctx, ofKey(identity.Normalize(id)))
}

func (s *RedisStore) BlockerOf(ctx context.Context, id string) (map[string]struct{}, error) {
	return s.memberSet(ctx, byKey(identity.Normalize(id)))
}

func (s *RedisStore) memberSet(ctx context.Context, key string) (map[string]struct{}, error) {
	members, err := s.redis.SMembers(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read block set: %w", err)
	}
	set := make(map[string]struct{}, len(members))
	for _, m := range members {
		set[identity.Normalize(m)] = struct{}{}
	}
	return set, nil
}

func ofKey(id string) string {
	return fmt.Sprintf("block:of:%s", id)
}

func byKey(id string) string {
	return fmt.Sprintf("block:by:%s", id)
}
