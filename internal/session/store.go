package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Store keeps the set of live sessions in Redis. A JWT alone cannot be
// revoked before it expires; pairing each token with a session key that
// logout deletes closes that gap. Keys expire with the same TTL as the
// token, so Redis never accumulates dead sessions.
type Store struct {
	client *redis.Client
	logger *zap.Logger
}

func NewStore(ctx context.Context, redisURL string, logger *zap.Logger) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logger.Info("redis connection established", zap.String("addr", opts.Addr))
	return &Store{client: client, logger: logger}, nil
}

func sessionKey(sessionID uuid.UUID) string {
	return "session:" + sessionID.String()
}

// Create records a new session for the user with the given lifetime.
func (s *Store) Create(ctx context.Context, sessionID, userID uuid.UUID, ttl time.Duration) error {
	if err := s.client.Set(ctx, sessionKey(sessionID), userID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// Active reports whether the session still exists (not logged out, not
// expired).
func (s *Store) Active(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	n, err := s.client.Exists(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("check session: %w", err)
	}
	return n > 0, nil
}

// Revoke deletes the session. Revoking an unknown session is a no-op.
func (s *Store) Revoke(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	s.logger.Info("closing redis connection")
	return s.client.Close()
}
