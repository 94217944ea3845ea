package ecs

import (
	"fmt"
	"time"

	"github.com/kamstrup/intmap"
	"go.uber.org/zap"
)

// Option configures a World.
type Option func(*World)

// WithLogger sets the world's structured logger. The default is a no-op
// logger.
func WithLogger(log *zap.Logger) Option {
	return func(w *World) { w.log = log }
}

// WithIDSource sets the id source used by CreateEntity. The default issues
// sequential ids.
func WithIDSource(src IDSource) Option {
	return func(w *World) { w.ids = src }
}

// World is the registry owning all entities, component types, systems, query
// caches and the structural event fan-out. A world is an explicit value;
// nothing in this package is process-global.
//
// All mutation is assumed to happen on one logical thread: from system
// updates during Tick or from setup code between ticks. There is no locking;
// concurrent callers must serialize.
type World struct {
	log *zap.Logger
	ids IDSource

	entities    *intmap.Map[EntityID, *Entity]
	typesByName map[string]*ComponentType
	types       []*ComponentType

	systems     []*systemEntry
	systemNames map[string]struct{}

	queries    map[string]*Query
	emptyQuery *Query

	listeners []func(Event)

	totalTicks int64
}

type systemEntry struct {
	name   string
	system System

	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// NewWorld creates an empty world.
func NewWorld(opts ...Option) *World {
	w := &World{
		log:         zap.NewNop(),
		ids:         NewSequentialIDs(),
		entities:    intmap.New[EntityID, *Entity](256),
		typesByName: make(map[string]*ComponentType),
		systemNames: make(map[string]struct{}),
		queries:     make(map[string]*Query),
	}
	for _, opt := range opts {
		opt(w)
	}
	// Returned by Query when compilation fails. Holds no world reference so
	// Rebuild on it stays a no-op.
	w.emptyQuery = &Query{matches: intmap.NewSet[EntityID](8)}
	return w
}

// RegisterComponentType records a new component type under name with the
// given factory and an empty presence index. A duplicate name is rejected:
// the call logs, returns ErrDuplicateRegistration, and the original
// registration stands.
func (w *World) RegisterComponentType(name string, build Factory) error {
	if _, ok := w.typesByName[name]; ok {
		w.log.Warn("duplicate component type registration", zap.String("type", name))
		return fmt.Errorf("%w: component type %s", ErrDuplicateRegistration, name)
	}
	ct := newComponentType(name, typeID(len(w.types)), build)
	w.typesByName[name] = ct
	w.types = append(w.types, ct)
	return nil
}

// Type returns the component-type record registered under name.
func (w *World) Type(name string) (*ComponentType, bool) {
	ct, ok := w.typesByName[name]
	return ct, ok
}

// TypeCount returns the number of registered component types.
func (w *World) TypeCount() int { return len(w.types) }

// RegisterSystem stores the system under name, binds it to this world, and
// invokes its OnRegistration hook exactly once. Registration order is tick
// order. A duplicate name is rejected: the call logs, returns
// ErrDuplicateRegistration, and the original registration stands.
func (w *World) RegisterSystem(name string, sys System) error {
	if _, ok := w.systemNames[name]; ok {
		w.log.Warn("duplicate system registration", zap.String("system", name))
		return fmt.Errorf("%w: system %s", ErrDuplicateRegistration, name)
	}
	if b, ok := sys.(worldBinder); ok {
		b.bindWorld(w)
	}
	w.systemNames[name] = struct{}{}
	w.systems = append(w.systems, &systemEntry{
		name:        name,
		system:      sys,
		minDuration: time.Duration(1<<63 - 1),
	})
	sys.OnRegistration()
	return nil
}

// CreateEntity constructs an entity with a fresh id from the world's id
// source and adds it.
func (w *World) CreateEntity() *Entity {
	e := NewEntity(w.ids.Next())
	w.AddEntity(e)
	return e
}

// AddEntity inserts a pre-constructed entity into the entity table, keyed by
// its id, and binds it to this world.
func (w *World) AddEntity(e *Entity) {
	e.world = w
	w.entities.Put(e.id, e)
}

// Entity returns the entity stored under id.
func (w *World) Entity(id EntityID) (*Entity, bool) {
	return w.entities.Get(id)
}

// EntityCount returns the number of entities in the world.
func (w *World) EntityCount() int { return w.entities.Len() }

// Subscribe registers a listener for structural events. Listeners run
// synchronously, in subscription order, inside the mutating call.
func (w *World) Subscribe(fn func(Event)) {
	w.listeners = append(w.listeners, fn)
}

func (w *World) publish(ev Event) {
	for _, fn := range w.listeners {
		fn(ev)
	}
}

// CreateQuery compiles a query for the literal logic list, populates it with
// an initial full rebuild, caches it, and subscribes it to structural events.
// A logic list already cached is a failure (ErrDuplicateQuery); fetch the
// existing query with Query instead.
func (w *World) CreateQuery(logic ...string) (*Query, error) {
	key := logicKey(logic)
	if _, ok := w.queries[key]; ok {
		w.log.Warn("duplicate query creation", zap.Strings("logic", logic))
		return nil, fmt.Errorf("%w: %v", ErrDuplicateQuery, logic)
	}
	q, err := newQuery(w, logic)
	if err != nil {
		w.log.Error("query creation failed", zap.Strings("logic", logic), zap.Error(err))
		return nil, err
	}
	w.queries[q.key] = q
	w.Subscribe(q.onEvent)
	return q, nil
}

// Query returns the live query for the logic list, compiling and caching it
// on first use. Repeated calls with an equal literal list return the same
// query. If creation fails the error is logged and an inert empty query is
// returned, never nil.
func (w *World) Query(logic ...string) *Query {
	if q, ok := w.queries[logicKey(logic)]; ok {
		return q
	}
	q, err := w.CreateQuery(logic...)
	if err != nil {
		return w.emptyQuery
	}
	return q
}

// HasQuery reports whether a query for the literal logic list has been
// compiled and cached.
func (w *World) HasQuery(logic ...string) bool {
	_, ok := w.queries[logicKey(logic)]
	return ok
}

// rebuildQueriesUsing re-evaluates every live query whose type list includes
// ct. Runs synchronously inside Detach, so a caller that detaches and
// immediately re-queries sees the post-detach state.
func (w *World) rebuildQueriesUsing(ct *ComponentType) {
	for _, q := range w.queries {
		if q.usesType(ct) {
			q.Rebuild()
		}
	}
}

// Tick invokes every registered system's Update with dt, in registration
// order. There is no isolation within a tick: structural changes made by an
// earlier system are visible to systems invoked after it.
func (w *World) Tick(dt float64) {
	w.totalTicks++
	for _, entry := range w.systems {
		start := time.Now()
		entry.system.Update(dt)
		duration := time.Since(start)

		entry.executionCount++
		entry.lastDuration = duration
		entry.totalDuration += duration
		if duration < entry.minDuration {
			entry.minDuration = duration
		}
		if duration > entry.maxDuration {
			entry.maxDuration = duration
		}
	}
}
