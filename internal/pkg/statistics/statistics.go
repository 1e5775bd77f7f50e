package statistics

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/premiumgate/premiumgate/app/repository"
)

const (
	CacheKeyUsers       = "statistics:users:total"
	CacheKeySubscribers = "statistics:users:subscribed"
	CacheExpiration     = 5 * time.Minute
)

// Data holds the counters shown on the home page.
type Data struct {
	TotalUsers  int64
	Subscribers int64
}

// Service reads the counters from redis and falls back to the database on a
// miss. Without a redis client every call hits the database.
type Service struct {
	users repository.UserRepository
	cache *redis.Client
	log   *log.Logger
}

func NewService(users repository.UserRepository, cacheClient *redis.Client, l *log.Logger) *Service {
	return &Service{users: users, cache: cacheClient, log: l}
}

func (s *Service) Get(ctx context.Context) (Data, error) {
	if d, ok := s.cached(ctx); ok {
		return d, nil
	}
	return s.Refresh(ctx)
}

// Refresh recounts from the database and rewrites the cache.
func (s *Service) Refresh(ctx context.Context) (Data, error) {
	total, err := s.users.Count(ctx)
	if err != nil {
		return Data{}, err
	}
	subscribed, err := s.users.CountSubscribed(ctx)
	if err != nil {
		return Data{}, err
	}
	d := Data{TotalUsers: total, Subscribers: subscribed}

	if s.cache != nil {
		_, err := s.cache.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, CacheKeyUsers, d.TotalUsers, CacheExpiration)
			p.Set(ctx, CacheKeySubscribers, d.Subscribers, CacheExpiration)
			return nil
		})
		if err != nil {
			s.log.Warn("failed to cache statistics", "err", err)
		}
	}
	return d, nil
}

// Invalidate drops the cached counters.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, CacheKeyUsers, CacheKeySubscribers).Err(); err != nil {
		s.log.Warn("failed to invalidate statistics", "err", err)
	}
}

func (s *Service) cached(ctx context.Context) (Data, bool) {
	if s.cache == nil {
		return Data{}, false
	}
	vals, err := s.cache.MGet(ctx, CacheKeyUsers, CacheKeySubscribers).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Debug("statistics cache unavailable", "err", err)
		}
		return Data{}, false
	}
	total, ok1 := parseCount(vals[0])
	subscribed, ok2 := parseCount(vals[1])
	if !ok1 || !ok2 {
		return Data{}, false
	}
	return Data{TotalUsers: total, Subscribers: subscribed}, true
}

func parseCount(v interface{}) (int64, bool) {
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	return n, err == nil
}
