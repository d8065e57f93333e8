package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const upcomingEventsKey = "events:upcoming"

type Config struct {
	Addr     string
	Password string
	Enabled  bool
}

// ValkeyClient fronts the sessions table and caches the landing-page events
// list. Every caller treats a nil client as "no cache".
type ValkeyClient struct {
	client *redis.Client
}

func NewValkeyClient(cfg Config) (*ValkeyClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	return &ValkeyClient{client: rdb}, nil
}

func sessionKey(token string) string {
	return "session:" + token
}

func (v *ValkeyClient) SetSession(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	return v.client.Set(ctx, sessionKey(token), userID, ttl).Err()
}

func (v *ValkeyClient) GetSessionUserID(ctx context.Context, token string) (int64, error) {
	value, err := v.client.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, fmt.Errorf("session not found in cache")
		}
		return 0, fmt.Errorf("cache lookup error: %w", err)
	}

	userID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID in cache: %w", err)
	}

	return userID, nil
}

func (v *ValkeyClient) DeleteSession(ctx context.Context, token string) error {
	return v.client.Del(ctx, sessionKey(token)).Err()
}

// GetUpcomingEventsRaw returns the cached landing-page payload as raw JSON
// to avoid an unmarshal/marshal round trip on the hot path.
func (v *ValkeyClient) GetUpcomingEventsRaw(ctx context.Context) ([]byte, error) {
	data, err := v.client.Get(ctx, upcomingEventsKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("upcoming events not in cache")
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}
	return data, nil
}

func (v *ValkeyClient) SetUpcomingEvents(ctx context.Context, payload interface{}, ttl time.Duration) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal upcoming events: %w", err)
	}
	return v.client.Set(ctx, upcomingEventsKey, data, ttl).Err()
}

// InvalidateUpcomingEvents drops the landing cache; called after event
// create/update/cancel so the landing page never shows a cancelled event
// for longer than one request.
func (v *ValkeyClient) InvalidateUpcomingEvents(ctx context.Context) error {
	return v.client.Del(ctx, upcomingEventsKey).Err()
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}
