package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	contractx "github.com/tanpawarit/promo-agent/agent/contract"
)

var _ contractx.TranscriptStore = (*RedisStore)(nil)

type RedisConfig struct {
	Addr      string        `envconfig:"ADDR" split_words:"true" default:"localhost:6379"`
	Password  string        `envconfig:"PASSWORD" split_words:"true"`
	DB        int           `envconfig:"DB" split_words:"true" default:"0"`
	KeyPrefix string        `envconfig:"KEY_PREFIX" split_words:"true" default:"conv:"`
	TTL       time.Duration `envconfig:"TTL" split_words:"true" default:"24h"`
}

// RedisStore persists transcripts in a directly reachable Redis server.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
	now       func() time.Time
}

func NewRedisStore(client redis.UniversalClient, keyPrefix string, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if ttl < 0 {
		return nil, errors.New("ttl must be >= 0")
	}
	if strings.TrimSpace(keyPrefix) == "" {
		keyPrefix = defaultStoreKeyPrefix
	}
	return &RedisStore{
		client:    client,
		keyPrefix: strings.TrimSpace(keyPrefix),
		ttl:       ttl,
		now:       time.Now,
	}, nil
}

func NewRedisStoreFromConfig(cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisStore(client, cfg.KeyPrefix, cfg.TTL)
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (contractx.Transcript, error) {
	key, err := sessionKey(s.keyPrefix, sessionID)
	if err != nil {
		return nil, err
	}

	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, contractx.ErrTranscriptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return decodeRecord(raw)
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, transcript contractx.Transcript) error {
	key, err := sessionKey(s.keyPrefix, sessionID)
	if err != nil {
		return err
	}
	if err := validate(transcript); err != nil {
		return err
	}

	payload, err := encodeRecord(sessionID, transcript, s.now())
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
