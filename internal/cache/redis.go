package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/skyvoyage/flight-booking-backend/internal/config"
	"github.com/skyvoyage/flight-booking-backend/internal/models"
)

// FlightCache caches flight listings and search results in Redis. Entries
// expire after the configured TTL and are invalidated whenever a flight is
// created, updated or deleted. Seat counts read through the cache may
// therefore lag the database by up to one TTL; booking decisions never read
// from the cache.
type FlightCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFlightCache creates a cache backed by the configured Redis instance
func NewFlightCache(cfg config.RedisConfig) *FlightCache {
	return &FlightCache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		ttl: cfg.CacheTTL,
	}
}

// Ping verifies the Redis connection
func (c *FlightCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// GetFlights returns the cached flight list for a key, or nil on a miss
func (c *FlightCache) GetFlights(ctx context.Context, key string) ([]models.Flight, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var flights []models.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

// SetFlights stores a flight list under a key with the cache TTL
func (c *FlightCache) SetFlights(ctx context.Context, key string, flights []models.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.ttl).Err()
}

// Invalidate drops every cached flight entry
func (c *FlightCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "cache:flights:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// ListKey is the cache key for the full flight listing
func ListKey() string {
	return "cache:flights:all"
}

// SearchKey is the cache key for one search query
func SearchKey(departureCity, arrivalCity, date string) string {
	return fmt.Sprintf("cache:flights:search:%s:%s:%s", departureCity, arrivalCity, date)
}
