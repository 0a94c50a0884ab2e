package storage

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Memory is an in-process RedisClient used by tests and local runs
// without a redis instance. TTLs are accepted but not enforced.
type Memory struct {
	mu      sync.Mutex
	strings map[string]string
	sets    map[string]map[string]struct{}
	hashes  map[string]map[string]string
}

func NewMemory() *Memory {
	return &Memory{
		strings: make(map[string]string),
		sets:    make(map[string]map[string]struct{}),
		hashes:  make(map[string]map[string]string),
	}
}

func (m *Memory) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.strings[key] = asString(value)
	return nil
}

func (m *Memory) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.strings[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *Memory) MGet(ctx context.Context, keys ...string) ([]interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]interface{}, len(keys))
	for i, key := range keys {
		if v, ok := m.strings[key]; ok {
			out[i] = v
		}
	}
	return out, nil
}

func (m *Memory) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.strings, key)
		delete(m.sets, key)
		delete(m.hashes, key)
	}
	return nil
}

func (m *Memory) Incr(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, _ := strconv.ParseInt(m.strings[key], 10, 64)
	n++
	m.strings[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (m *Memory) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return nil
}

func (m *Memory) HSet(ctx context.Context, key string, values ...interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hashes[key]
	if !ok {
		h = make(map[string]string)
		m.hashes[key] = h
	}
	for i := 0; i+1 < len(values); i += 2 {
		h[asString(values[i])] = asString(values[i+1])
	}
	return nil
}

func (m *Memory) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.hashes[key]))
	for k, v := range m.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (m *Memory) SAdd(ctx context.Context, key string, members ...interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sets[key]
	if !ok {
		s = make(map[string]struct{})
		m.sets[key] = s
	}
	for _, member := range members {
		s[asString(member)] = struct{}{}
	}
	return nil
}

func (m *Memory) SMembers(ctx context.Context, key string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sets[key]))
	for member := range m.sets[key] {
		out = append(out, member)
	}
	return out, nil
}

func (m *Memory) SRem(ctx context.Context, key string, members ...interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, member := range members {
		delete(m.sets[key], asString(member))
	}
	return nil
}

func (m *Memory) Ping(ctx context.Context) error {
	return nil
}

func (m *Memory) Close() error {
	return nil
}

func asString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return ""
	}
}
