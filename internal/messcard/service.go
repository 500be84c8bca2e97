package messcard

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/csesnitw/MessApp-server/internal/metrics"
)

// Service serves card lookups through a Redis read-through cache. The cache
// bounds repeated scanner reads; a cold or unavailable Redis degrades to the
// Postgres store without failing the request.
type Service struct {
	store Store
	redis *redis.Client
	ttl   time.Duration
}

// NewService creates the card service. redis may be nil to disable caching.
func NewService(store Store, redisClient *redis.Client, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{store: store, redis: redisClient, ttl: ttl}
}

func cacheKey(rollNo string) string {
	return "messcard:" + rollNo
}

// Lookup returns the card for a roll number, consulting the cache first.
func (s *Service) Lookup(ctx context.Context, rollNo string) (*Card, error) {
	rollNo = strings.TrimSpace(rollNo)
	if s.redis != nil {
		raw, err := s.redis.Get(ctx, cacheKey(rollNo)).Result()
		if err == nil {
			var c Card
			if err := json.Unmarshal([]byte(raw), &c); err == nil {
				metrics.CardCacheLookups.WithLabelValues("hit").Inc()
				return &c, nil
			}
		} else if err != redis.Nil {
			log.Printf("messcard cache read failed: %v", err)
		}
		metrics.CardCacheLookups.WithLabelValues("miss").Inc()
	}

	card, err := s.store.Get(ctx, rollNo)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, ErrNotFound
	}
	s.fill(ctx, *card)
	return card, nil
}

// Create writes a new card and primes the cache.
func (s *Service) Create(ctx context.Context, card Card) error {
	card.RollNo = strings.TrimSpace(card.RollNo)
	if err := s.store.Insert(ctx, card); err != nil {
		return err
	}
	s.fill(ctx, card)
	return nil
}

func (s *Service) fill(ctx context.Context, card Card) {
	if s.redis == nil {
		return
	}
	raw, err := json.Marshal(card)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, cacheKey(card.RollNo), raw, s.ttl).Err(); err != nil {
		log.Printf("messcard cache write failed: %v", err)
	}
}
