package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ziedsaddem/hotelbooking/internal/mygo"
)

// Cache stores search results keyed by the logical search parameters.
type Cache interface {
	Get(ctx context.Context, params mygo.SearchParams) ([]mygo.Hotel, bool)
	Set(ctx context.Context, params mygo.SearchParams, hotels []mygo.Hotel) error
	Close() error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Host:     "localhost",
		Port:     "6379",
		Password: "",
		DB:       0,
		TTL:      5 * time.Minute,
	}
}

func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{
		client: client,
		ttl:    cfg.TTL,
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, params mygo.SearchParams) ([]mygo.Hotel, bool) {
	data, err := c.client.Get(ctx, Key(params)).Bytes()
	if err != nil {
		return nil, false
	}

	var hotels []mygo.Hotel
	if err := json.Unmarshal(data, &hotels); err != nil {
		return nil, false
	}

	return hotels, true
}

func (c *RedisCache) Set(ctx context.Context, params mygo.SearchParams, hotels []mygo.Hotel) error {
	data, err := json.Marshal(hotels)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, Key(params), data, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(ctx context.Context, params mygo.SearchParams) ([]mygo.Hotel, bool) {
	return nil, false
}

func (c *NoOpCache) Set(ctx context.Context, params mygo.SearchParams, hotels []mygo.Hotel) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}

// Key derives a deterministic cache key from the logical search parameters.
// Only normalized request fields go into the digest: supplier session state
// is never part of the key material.
func Key(params mygo.SearchParams) string {
	keyData := struct {
		City          int
		CheckIn       string
		CheckOut      string
		Rooms         []mygo.Room
		Hotels        []int
		OnlyAvailable bool
		Currency      string
	}{
		City:          params.CityID,
		CheckIn:       params.CheckIn,
		CheckOut:      params.CheckOut,
		Rooms:         params.Rooms,
		Hotels:        params.HotelIDs,
		OnlyAvailable: params.OnlyAvailable,
		Currency:      params.Currency,
	}

	data, _ := json.Marshal(keyData)
	hash := sha256.Sum256(data)
	return "hotelsearch:" + hex.EncodeToString(hash[:])
}
