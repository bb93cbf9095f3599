package catalog

import (
	"context"
	"errors"
	"log"

	"golang.org/x/sync/singleflight"
)

// ProductFetcher is the slice of Client the service needs.
type ProductFetcher interface {
	Product(ctx context.Context, slug string) (*Product, error)
}

// Service serves product lookups through a cache. Concurrent misses for the
// same slug collapse into one upstream fetch.
type Service struct {
	fetcher ProductFetcher
	cache   ProductCache
	sfg     singleflight.Group
}

func NewService(fetcher ProductFetcher, cache ProductCache) *Service {
	return &Service{
		fetcher: fetcher,
		cache:   cache,
	}
}

func (s *Service) Product(ctx context.Context, slug string) (*Product, error) {
	v, err, _ := s.sfg.Do(slug, func() (interface{}, error) {

		product, err := s.cache.Get(ctx, slug)
		if err == nil {
			return product, nil
		}

		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		product, errFetch := s.fetcher.Product(ctx, slug)
		if errFetch != nil {
			return nil, errFetch
		}

		// fill cache off the request path
		go func() {
			if errSet := s.cache.Set(context.Background(), slug, product); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return product, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*Product), nil
}

// Invalidate drops a product from the cache, for callers that know it changed.
func (s *Service) Invalidate(ctx context.Context, slug string) {
	if err := s.cache.Delete(ctx, slug); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
