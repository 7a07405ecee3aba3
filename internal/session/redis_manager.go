package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/carcarahealth/glica/internal/apperrors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// sessionTTL bounds how long an idle session survives before Redis expires
// it.
const sessionTTL = 24 * time.Hour

// RedisStore keeps sessions in Redis so they survive restarts and are
// shared across instances.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(host, port string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", host, port),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// Create starts a new session at the home screen.
func (s *RedisStore) Create(ctx context.Context) (*Session, error) {
	session := NewSession(uuid.NewString())
	if err := s.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get returns the session by identifier.
func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	result := s.client.Get(ctx, sessionKey(id))
	if result.Err() == redis.Nil {
		return nil, apperrors.ErrSessionNotFound
	}
	if result.Err() != nil {
		return nil, apperrors.NewPersistenceError(result.Err())
	}

	var session Session
	if err := json.Unmarshal([]byte(result.Val()), &session); err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	return &session, nil
}

// Save stores the session state with the idle TTL.
func (s *RedisStore) Save(ctx context.Context, session *Session) error {
	session.UpdatedAt = time.Now()

	data, err := json.Marshal(session)
	if err != nil {
		return apperrors.NewPersistenceError(err)
	}
	if err := s.client.Set(ctx, sessionKey(session.ID), data, sessionTTL).Err(); err != nil {
		return apperrors.NewPersistenceError(err)
	}
	return nil
}

// Delete removes the session.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return apperrors.NewPersistenceError(err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func sessionKey(id string) string {
	return "session:" + id
}
