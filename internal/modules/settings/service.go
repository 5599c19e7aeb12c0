package settings

import "context"

// Service serves the settings row through the cache and keeps the cache
// coherent on administrator updates.
type Service struct {
	store *Store
	cache *Cache
}

func NewService(store *Store, cache *Cache) *Service {
	return &Service{store: store, cache: cache}
}

func (s *Service) Get(ctx context.Context) (Settings, error) {
	if s.cache != nil {
		if st, ok := s.cache.Get(ctx); ok {
			return st, nil
		}
	}
	st, err := s.store.Get(ctx)
	if err != nil {
		return Settings{}, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, st)
	}
	return st, nil
}

func (s *Service) Update(ctx context.Context, st Settings) error {
	if err := s.store.Update(ctx, st); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return nil
}
