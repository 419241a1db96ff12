// Package caching holds the Redis-backed session store. Tokens map to
// usernames with no expiry; a token stays valid until it is revoked.
package caching

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when a token has no entry in the store.
var ErrSessionNotFound = errors.New("session not found")

type SessionStore interface {
	Set(ctx context.Context, token, username string) error
	Get(ctx context.Context, token string) (string, error)
	Exists(ctx context.Context, token string) (bool, error)
	Delete(ctx context.Context, token string) error
	Ping(ctx context.Context) error
}

type redisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(addr, password string, db int) SessionStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisSessionStore{client: client}
}

func sessionKey(token string) string {
	return "zoorequest:session:" + token
}

func (s *redisSessionStore) Set(ctx context.Context, token, username string) error {
	// TTL 0: sessions live until logout.
	return s.client.Set(ctx, sessionKey(token), username, 0).Err()
}

func (s *redisSessionStore) Get(ctx context.Context, token string) (string, error) {
	username, err := s.client.Get(ctx, sessionKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", err
	}
	return username, nil
}

func (s *redisSessionStore) Exists(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, sessionKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, token string) error {
	n, err := s.client.Del(ctx, sessionKey(token)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *redisSessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
