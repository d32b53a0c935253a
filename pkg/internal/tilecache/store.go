package tilecache

import lru "github.com/hashicorp/golang-lru"

type tileStore interface {
	get(t int) ([]float32, bool)
	contains(t int) bool
	add(t int, samples []float32)
	len() int
	purge()
}

type mapStore struct {
	tiles map[int][]float32
}

func newMapStore() *mapStore {
	return &mapStore{tiles: make(map[int][]float32)}
}

func (s *mapStore) get(t int) ([]float32, bool) {
	v, ok := s.tiles[t]
	return v, ok
}

func (s *mapStore) contains(t int) bool {
	_, ok := s.tiles[t]
	return ok
}

func (s *mapStore) add(t int, samples []float32) { s.tiles[t] = samples }
func (s *mapStore) len() int                     { return len(s.tiles) }
func (s *mapStore) purge()                       { s.tiles = make(map[int][]float32) }

// lruStore bounds the number of cached tiles. onEvict runs inside add while the coordinator
// lock is held.
type lruStore struct {
	cache *lru.Cache
}

func newLRUStore(size int, onEvict func(t int)) (*lruStore, error) {
	cache, err := lru.NewWithEvict(size, func(key, _ interface{}) {
		if t, ok := key.(int); ok && onEvict != nil {
			onEvict(t)
		}
	})
	if err != nil {
		return nil, err
	}
	return &lruStore{cache: cache}, nil
}

func (s *lruStore) get(t int) ([]float32, bool) {
	v, ok := s.cache.Get(t)
	if !ok {
		return nil, false
	}
	samples, ok := v.([]float32)
	return samples, ok
}

func (s *lruStore) contains(t int) bool          { return s.cache.Contains(t) }
func (s *lruStore) add(t int, samples []float32) { s.cache.Add(t, samples) }
func (s *lruStore) len() int                     { return s.cache.Len() }
func (s *lruStore) purge()                       { s.cache.Purge() }
