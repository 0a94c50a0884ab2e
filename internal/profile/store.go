package profile

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/wandermate/nearby/internal/identity"
	"github.com/wandermate/nearby/internal/storage"
)

// Store is the read collaborator for traveler attributes.
type Store interface {
	// FetchByIDs returns the profiles that exist for the given
	// identities. Missing profiles are skipped, not errors.
	FetchByIDs(ctx context.Context, ids []string) ([]TravelerProfile, error)
}

// RedisStore keeps each profile as a hash under profile:{id}.
type RedisStore struct {
	redis storage.RedisClient
}

func NewRedisStore(redisClient storage.RedisClient) *RedisStore {
	return &RedisStore{redis: redisClient}
}

func (s *RedisStore) Save(ctx context.Context, p TravelerProfile) error {
	id := identity.Normalize(p.ID)

	fields := []interface{}{
		"display_name", p.DisplayName,
		"origin_country_code", p.OriginCountryCode,
		"birth_date", p.BirthDate,
		"gender", p.Gender,
		"travel_style", p.TravelStyle,
		"interests", strings.Join(p.Interests, ","),
		"avatar_url", p.AvatarURL,
	}
	if p.Age != nil {
		fields = append(fields, "age", strconv.Itoa(*p.Age))
	}

	if err := s.redis.HSet(ctx, profileKey(id), fields...); err != nil {
		return fmt.Errorf("failed to store profile: %w", err)
	}
	return nil
}

func (s *RedisStore) FetchByIDs(ctx context.Context, ids []string) ([]TravelerProfile, error) {
	profiles := make([]TravelerProfile, 0, len(ids))

	for _, raw := range ids {
		id := identity.Normalize(raw)
		fields, err := s.redis.HGetAll(ctx, profileKey(id))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch profile %s: %w", id, err)
		}
		if len(fields) == 0 {
			continue
		}
		profiles = append(profiles, fromFields(id, fields))
	}

	return profiles, nil
}

func fromFields(id string, fields map[string]string) TravelerProfile {
	p := TravelerProfile{
		ID:                id,
		DisplayName:       fields["display_name"],
		OriginCountryCode: fields["origin_country_code"],
		BirthDate:         fields["birth_date"],
		Gender:            fields["gender"],
		TravelStyle:       fields["travel_style"],
		AvatarURL:         fields["avatar_url"],
	}
	if raw := fields["interests"]; raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				p.Interests = append(p.Interests, tag)
			}
		}
	}
	if raw := fields["age"]; raw != "" {
		if age, err := strconv.Atoi(raw); err == nil {
			p.Age = &age
		}
	}
	return p
}

func profileKey(id string) string {
	return fmt.Sprintf("profile:%s", id)
}
