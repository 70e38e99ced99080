package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RefreshTokenStore guarda los jti de refresco junto al usuario dueno.
// Owner permite verificar que quien presenta el token es quien lo emitio,
// y RevokeUser invalida todas las sesiones al borrar la cuenta.
type RefreshTokenStore interface {
	Store(jti, userID string, ttl time.Duration) error
	Owner(jti string) (string, bool, error)
	Revoke(jti string) error
	RevokeUser(userID string) error
}

type refreshSession struct {
	userID    string
	expiresAt time.Time
}

type memoryRefreshTokenStore struct {
	mu    sync.Mutex
	items map[string]refreshSession
}

func NewMemoryRefreshTokenStore() RefreshTokenStore {
	return &memoryRefreshTokenStore{
		items: make(map[string]refreshSession),
	}
}

func (s *memoryRefreshTokenStore) Store(jti, userID string, ttl time.Duration) error {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[jti] = refreshSession{
		userID:    userID,
		expiresAt: time.Now().UTC().Add(ttl),
	}
	return nil
}

func (s *memoryRefreshTokenStore) Owner(jti string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.items[strings.TrimSpace(jti)]
	if !ok {
		return "", false, nil
	}
	if time.Now().UTC().After(session.expiresAt) {
		delete(s.items, strings.TrimSpace(jti))
		return "", false, nil
	}
	return session.userID, true, nil
}

func (s *memoryRefreshTokenStore) Revoke(jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, strings.TrimSpace(jti))
	return nil
}

func (s *memoryRefreshTokenStore) RevokeUser(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for jti, session := range s.items {
		if session.userID == userID {
			delete(s.items, jti)
		}
	}
	return nil
}

// redisKV cubre los comandos que usa el store; *redis.Client lo satisface.
type redisKV interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SRem(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

type redisRefreshTokenStore struct {
	client     redisKV
	prefix     string
	userPrefix string
}

func NewRedisRefreshTokenStore(client *redis.Client) RefreshTokenStore {
	if client == nil {
		return nil
	}
	return &redisRefreshTokenStore{
		client:     client,
		prefix:     "auth:refresh:",
		userPrefix: "auth:refresh:user:",
	}
}

func (s *redisRefreshTokenStore) Store(jti, userID string, ttl time.Duration) error {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if err := s.client.Set(ctx, s.prefix+jti, userID, ttl).Err(); err != nil {
		return err
	}
	if err := s.client.SAdd(ctx, s.userPrefix+userID, jti).Err(); err != nil {
		return err
	}
	// El set del usuario vive al menos tanto como su jti mas nuevo.
	return s.client.Expire(ctx, s.userPrefix+userID, ttl).Err()
}

func (s *redisRefreshTokenStore) Owner(jti string) (string, bool, error) {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return "", false, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	userID, err := s.client.Get(ctx, s.prefix+jti).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return userID, true, nil
}

func (s *redisRefreshTokenStore) Revoke(jti string) error {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	userID, err := s.client.Get(ctx, s.prefix+jti).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.client.Del(ctx, s.prefix+jti).Err(); err != nil {
		return err
	}
	return s.client.SRem(ctx, s.userPrefix+userID, jti).Err()
}

func (s *redisRefreshTokenStore) RevokeUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	jtis, err := s.client.SMembers(ctx, s.userPrefix+userID).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(jtis)+1)
	for _, jti := range jtis {
		keys = append(keys, s.prefix+jti)
	}
	keys = append(keys, s.userPrefix+userID)
	return s.client.Del(ctx, keys...).Err()
}
