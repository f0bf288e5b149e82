package cache

import (
	"math"
	"slices"
	"sync"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/entity"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/metrics"
)

// Store is the keyed collection of one entity kind plus the visible window.
//
// Two windows are tracked: the paginated one (pages) and, while a search is
// shown, the overlay. Every identifier in either window is present in items.
// Every mutation stamps the identifier with an arrival sequence number; bulk
// merges carry the Mark taken before their fetch was issued and skip entries
// stamped after it, so a slow page or search result never overwrites a newer
// realtime write nor resurrects a removed entity. A mark stays outstanding
// until it is released; stamps no outstanding mark can predate are forgotten.
type Store[T entity.Entity[T]] struct {
	kind entity.Kind
	log  *zap.Logger

	mu       sync.RWMutex
	items    map[string]T
	pages    []string
	overlay  []string
	overlaid bool
	seq      uint64
	touched  map[string]uint64
	marks    map[uint64]int
	pruneAt  int
}

const minPrune = 64

func NewStore[T entity.Entity[T]](kind entity.Kind, logger *zap.Logger) *Store[T] {
	return &Store[T]{
		kind:    kind,
		log:     logger.With(zap.String("component", "cache"), zap.String("kind", string(kind))),
		items:   make(map[string]T),
		touched: make(map[string]uint64),
		marks:   make(map[uint64]int),
		pruneAt: minPrune,
	}
}

func (s *Store[T]) Kind() entity.Kind {
	return s.kind
}

// Mark returns the current arrival sequence. Take it before issuing a fetch
// whose result will be merged with ResetPage, AppendPage, Merge or
// ReplaceWindowSince, and Release it once merged or abandoned.
func (s *Store[T]) Mark() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marks[s.seq]++
	return s.seq
}

// Release ends a mark taken with Mark.
func (s *Store[T]) Release(mark uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.release(mark)
}

// Upsert inserts or replaces e. An entity already in the visible window keeps
// its position. With includeInWindow an entity outside the paginated window is
// put at its head; while a search is shown it surfaces after RestoreWindow.
func (s *Store[T]) Upsert(e T, includeInWindow bool) {
	id := e.EntityID()
	if id == "" {
		s.log.Warn("Cache: ignoring upsert without identifier")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[id] = e.Clone()
	s.stamp(id)
	s.prune()

	if includeInWindow && !slices.Contains(s.pages, id) {
		s.pages = slices.Insert(s.pages, 0, id)
	}
	s.observe()
	s.log.Debug("Cache: upsert", zap.String("entity_id", id), zap.Bool("in_window", includeInWindow))
}

// Remove deletes id from the collection and both windows. Removing an absent
// identifier is a no-op apart from recording the removal as the newest write.
func (s *Store[T]) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stamp(id)
	s.prune()
	if _, found := s.items[id]; !found {
		return
	}
	delete(s.items, id)
	s.pages = without(s.pages, id)
	s.overlay = without(s.overlay, id)
	s.observe()
	s.log.Debug("Cache: removed", zap.String("entity_id", id))
}

// ReplaceWindow swaps the visible window for ids and merges entities. The
// paginated window is kept aside for RestoreWindow.
func (s *Store[T]) ReplaceWindow(ids []string, entities []T) {
	s.ReplaceWindowSince(math.MaxUint64, ids, entities)
}

func (s *Store[T]) ReplaceWindowSince(mark uint64, ids []string, entities []T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.merge(mark, entities)
	s.overlay = s.present(ids)
	s.overlaid = true
	s.observe()
}

// RestoreWindow shows the paginated window again. Nothing is re-fetched: the
// paginated entities never left the collection.
func (s *Store[T]) RestoreWindow() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.overlay = nil
	s.overlaid = false
	s.observe()
}

// ResetPage replaces the paginated window with a freshly loaded first page.
// Entities put at the head after mark (realtime inserts) stay ahead of it.
func (s *Store[T]) ResetPage(mark uint64, entities []T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var head []string
	for _, id := range s.pages {
		if s.touched[id] > mark {
			head = append(head, id)
		}
	}

	s.merge(mark, entities)
	pages := head
	for _, e := range entities {
		id := e.EntityID()
		if _, ok := s.items[id]; ok && !slices.Contains(pages, id) {
			pages = append(pages, id)
		}
	}
	s.pages = pages
	s.observe()
}

// AppendPage adds a loaded page to the tail of the paginated window.
func (s *Store[T]) AppendPage(mark uint64, entities []T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.merge(mark, entities)
	for _, e := range entities {
		id := e.EntityID()
		if _, ok := s.items[id]; ok && !slices.Contains(s.pages, id) {
			s.pages = append(s.pages, id)
		}
	}
	s.observe()
}

// Merge adds entities to the collection without touching either window.
// Used for entities fetched only because something in a window refers to them.
func (s *Store[T]) Merge(mark uint64, entities []T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.merge(mark, entities)
	s.observe()
}

func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, found := s.items[id]
	if !found {
		var zero T
		return zero, false
	}
	return e.Clone(), true
}

// Window returns copies of the visible entities in window order.
func (s *Store[T]) Window() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.visible()
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.items[id].Clone())
	}
	return out
}

func (s *Store[T]) WindowIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.visible())
}

// Missing returns the ids, deduplicated and in input order, that are not in the collection.
func (s *Store[T]) Missing(ids []string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []string
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := s.items[id]; !ok && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store[T]) Overlaid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overlaid
}

func (s *Store[T]) visible() []string {
	if s.overlaid {
		return s.overlay
	}
	return s.pages
}

func (s *Store[T]) stamp(id string) {
	s.seq++
	s.touched[id] = s.seq
}

func (s *Store[T]) release(mark uint64) {
	switch n := s.marks[mark]; {
	case n == 0:
		return
	case n == 1:
		delete(s.marks, mark)
	default:
		s.marks[mark] = n - 1
	}
	s.prune()
}

// prune drops stamps not newer than the oldest outstanding mark: a merge can
// only skip entries stamped after its own mark. Runs once the map doubled
// since the last pass.
func (s *Store[T]) prune() {
	if len(s.touched) < s.pruneAt {
		return
	}
	oldest := s.seq
	for m := range s.marks {
		oldest = min(oldest, m)
	}
	for id, stamp := range s.touched {
		if stamp <= oldest {
			delete(s.touched, id)
		}
	}
	s.pruneAt = max(2*len(s.touched), minPrune)
}

func (s *Store[T]) merge(mark uint64, entities []T) {
	for _, e := range entities {
		id := e.EntityID()
		if id == "" {
			continue
		}
		if s.touched[id] > mark {
			s.log.Debug("Cache: skipping stale merge", zap.String("entity_id", id))
			continue
		}
		s.items[id] = e.Clone()
		s.stamp(id)
	}
}

func (s *Store[T]) present(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := s.items[id]; ok && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func (s *Store[T]) observe() {
	metrics.CacheEntries.WithLabelValues(string(s.kind)).Set(float64(len(s.items)))
	metrics.WindowLength.WithLabelValues(string(s.kind)).Set(float64(len(s.visible())))
}

func without(ids []string, id string) []string {
	i := slices.Index(ids, id)
	if i < 0 {
		return ids
	}
	return slices.Delete(ids, i, i+1)
}
