package collide

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// World owns a table of entities and keeps a spatial index in step with its
// live entries. Removed entries stay in the table as tombstones so that ids
// are never reused.
//
// A World is not safe for concurrent use. Query callbacks must not mutate
// the World they are iterating, but may query it again.
type World[P any] struct {
	entities []Entity[P]

	// indexes into entities
	index SpatialIndexer

	log *zap.Logger
}

// QueryFunc receives each colliding entity. Returning false stops the query.
type QueryFunc[P any] func(id EntityID, entity Entity[P]) bool

type Option func(*options)

type options struct {
	log *zap.Logger
}

func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

func NewWorld[P any](index SpatialIndexer, opts ...Option) *World[P] {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	return &World[P]{
		index: index,
		log:   o.log,
	}
}

// NewWorldFromConfig builds the index and logger described by cfg.
func NewWorldFromConfig[P any](cfg *Config) (*World[P], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	return NewWorld[P](cfg.Index.New(), WithLogger(log)), nil
}

func (w *World[P]) Index() SpatialIndexer {
	return w.index
}

// Emplace stores entity under a fresh id.
func (w *World[P]) Emplace(entity Entity[P]) (EntityID, error) {
	if err := w.validate(entity); err != nil {
		w.log.Warn("emplace rejected", zap.Error(err))
		return 0, err
	}

	id := EntityID(len(w.entities))
	w.entities = append(w.entities, entity)
	w.activate(id)

	w.log.Debug("emplace", zap.Uint32("id", uint32(id)), zap.Stringer("shape", entity.Shape), zap.Stringer("bb", entity.BB))
	return id, nil
}

// Replace overwrites a live entity, keeping its id.
func (w *World[P]) Replace(id EntityID, entity Entity[P]) error {
	if !w.Exists(id) {
		err := errors.Wrapf(ErrUnknownEntity, "replace %d", id)
		w.log.Warn("replace rejected", zap.Error(err))
		return err
	}
	if err := w.validate(entity); err != nil {
		w.log.Warn("replace rejected", zap.Uint32("id", uint32(id)), zap.Error(err))
		return err
	}

	w.deactivate(id)
	w.entities[id] = entity
	w.activate(id)

	w.log.Debug("replace", zap.Uint32("id", uint32(id)), zap.Stringer("shape", entity.Shape), zap.Stringer("bb", entity.BB))
	return nil
}

// Remove tombstones a live entity. Its id is not handed out again.
func (w *World[P]) Remove(id EntityID) error {
	if !w.Exists(id) {
		err := errors.Wrapf(ErrUnknownEntity, "remove %d", id)
		w.log.Warn("remove rejected", zap.Error(err))
		return err
	}

	w.entities[id].Shape = ShapeCount
	w.deactivate(id)

	w.log.Debug("remove", zap.Uint32("id", uint32(id)))
	return nil
}

// Clear drops every entity. Ids restart from zero.
func (w *World[P]) Clear() {
	w.entities = nil
	w.index.Clear()
	w.log.Debug("clear")
}

func (w *World[P]) Exists(id EntityID) bool {
	return int(id) < len(w.entities) && w.entities[id].Live()
}

// Get returns a live entity.
func (w *World[P]) Get(id EntityID) (Entity[P], bool) {
	if !w.Exists(id) {
		return Entity[P]{}, false
	}
	return w.entities[id], true
}

// Len returns the number of slots, tombstones included.
func (w *World[P]) Len() int {
	return len(w.entities)
}

// Count returns the number of live entities.
func (w *World[P]) Count() int {
	return w.index.Count()
}

// Each visits live entities in id order.
func (w *World[P]) Each(f QueryFunc[P]) {
	for i, entity := range w.entities {
		if !entity.Live() {
			continue
		}
		if !f(EntityID(i), entity) {
			return
		}
	}
}

// QueryEntity calls f for each stored entity colliding with entity.
func (w *World[P]) QueryEntity(entity Entity[P], f QueryFunc[P]) error {
	var err error
	w.index.Query(entity.BB, func(id EntityID) bool {
		candidate := w.entities[id]

		var hit bool
		hit, err = entity.CollidesEntity(candidate, true)
		if err != nil {
			err = errors.WithMessagef(err, "entity %d", id)
			return false
		}
		if hit {
			return f(id, candidate)
		}

		// continue
		return true
	})
	return w.queryFailed(err)
}

// QueryPoint calls f for each entity containing v. Only the index cell
// holding v is searched.
func (w *World[P]) QueryPoint(v Vector, f QueryFunc[P]) error {
	var err error
	w.index.EachInCell(w.index.CellOf(v), func(id EntityID) bool {
		candidate := w.entities[id]

		var hit bool
		hit, err = candidate.CollidesPoint(v, true)
		if err != nil {
			err = errors.WithMessagef(err, "entity %d", id)
			return false
		}
		if hit {
			return f(id, candidate)
		}
		return true
	})
	return w.queryFailed(err)
}

// QueryLine calls f for each entity touched by the segment a-b.
func (w *World[P]) QueryLine(a, b Vector, f QueryFunc[P]) error {
	var err error
	// TODO: walk only the cells crossed by the segment instead of its box.
	w.index.Query(NewBBForCorners(a, b), func(id EntityID) bool {
		candidate := w.entities[id]

		var hit bool
		hit, err = candidate.CollidesLine(a, b, true)
		if err != nil {
			err = errors.WithMessagef(err, "entity %d", id)
			return false
		}
		if hit {
			return f(id, candidate)
		}
		return true
	})
	return w.queryFailed(err)
}

// QueryBB calls f for each entity whose bounding box overlaps bb, without
// any narrow-phase test.
func (w *World[P]) QueryBB(bb BB, f QueryFunc[P]) {
	w.index.Query(bb, func(id EntityID) bool {
		candidate := w.entities[id]
		if !candidate.Live() || !candidate.BB.Intersects(bb) {
			return true
		}
		return f(id, candidate)
	})
}

func (w *World[P]) validate(entity Entity[P]) error {
	if !entity.Shape.Valid() {
		return errors.Wrapf(ErrInvalidShape, "shape %v", entity.Shape)
	}
	if !entity.BB.Valid() {
		return errors.Wrapf(ErrInvalidBB, "bb %v", entity.BB)
	}
	return nil
}

func (w *World[P]) queryFailed(err error) error {
	if err != nil {
		w.log.Warn("query failed", zap.Error(err))
	}
	return err
}

// adds entity to the spatial index
func (w *World[P]) activate(id EntityID) {
	w.index.Insert(id, w.entities[id].BB)
	assertSoft(w.index.Contains(id), "entity", id, "missing from index")
}

// removes entity from the spatial index
func (w *World[P]) deactivate(id EntityID) {
	w.index.Remove(id)
	assertSoft(!w.index.Contains(id), "entity", id, "still indexed")
}
