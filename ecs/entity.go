package ecs

import (
	"fmt"

	"go.uber.org/zap"
)

// EntityID is an opaque, process-unique entity identifier. 0 is never issued.
type EntityID uint64

// Entity is a unique identifier plus the components currently attached to it,
// at most one per type. Entities are constructed by the collaborator (or by
// World.CreateEntity) and become mutable once added to a world.
type Entity struct {
	id         EntityID
	world      *World
	components map[typeID]Component
}

// NewEntity constructs an entity with the given id. The entity is bound to a
// world by World.AddEntity.
func NewEntity(id EntityID) *Entity {
	return &Entity{
		id:         id,
		components: make(map[typeID]Component, 8),
	}
}

// ID returns the entity's identifier.
func (e *Entity) ID() EntityID { return e.id }

// Len returns the number of attached components.
func (e *Entity) Len() int { return len(e.components) }

// Has reports whether a component of the named kind is attached.
func (e *Entity) Has(kind string) bool {
	if e.world == nil {
		return false
	}
	ct, ok := e.world.typesByName[kind]
	if !ok {
		return false
	}
	return e.has(ct.id)
}

func (e *Entity) has(id typeID) bool {
	_, ok := e.components[id]
	return ok
}

// Component returns the attached component of the named kind.
func (e *Entity) Component(kind string) (Component, bool) {
	if e.world == nil {
		return nil, false
	}
	ct, ok := e.world.typesByName[kind]
	if !ok {
		return nil, false
	}
	c, ok := e.components[ct.id]
	return c, ok
}

// Attach constructs a component of the named kind from the property bag and
// attaches it: the component is stored on the entity, the type's presence
// index is updated, OnAttached runs, and a ComponentAttached event is
// published before Attach returns.
//
// Attaching a kind the world has never registered is a hard failure: Attach
// returns ErrUnregisteredType and the entity is left unmodified. Re-attaching
// a kind the entity already holds replaces the stored instance.
func (e *Entity) Attach(kind string, props Props) (Component, error) {
	if e.world == nil {
		return nil, fmt.Errorf("%w: %s (entity %d is not in a world)", ErrUnregisteredType, kind, e.id)
	}
	w := e.world
	ct, ok := w.typesByName[kind]
	if !ok {
		w.log.Error("attach of unregistered component type",
			zap.String("type", kind),
			zap.Uint64("entity", uint64(e.id)))
		return nil, fmt.Errorf("%w: %s", ErrUnregisteredType, kind)
	}

	comp := ct.build(props)
	if e.has(ct.id) {
		w.log.Debug("replacing attached component",
			zap.String("type", kind),
			zap.Uint64("entity", uint64(e.id)))
	}
	e.components[ct.id] = comp
	ct.add(e.id)
	comp.OnAttached(e)
	w.publish(Event{
		Kind:      ComponentAttached,
		Entity:    e,
		Component: comp,
		Type:      ct,
	})
	return comp, nil
}

// Detach removes the component of the named kind from the entity and from the
// type's presence index, then synchronously rebuilds every live query whose
// type list includes the kind. No event is published: attach is patched
// incrementally, detach pays for a full re-evaluation.
//
// Detaching a kind the entity does not hold is a logged no-op returning
// ErrComponentNotPresent.
func (e *Entity) Detach(kind string) error {
	if e.world == nil {
		return fmt.Errorf("%w: %s (entity %d is not in a world)", ErrComponentNotPresent, kind, e.id)
	}
	w := e.world
	ct, ok := w.typesByName[kind]
	if !ok || !e.has(ct.id) {
		w.log.Warn("detach of component not present",
			zap.String("type", kind),
			zap.Uint64("entity", uint64(e.id)))
		return fmt.Errorf("%w: %s on entity %d", ErrComponentNotPresent, kind, e.id)
	}

	delete(e.components, ct.id)
	ct.remove(e.id)
	w.rebuildQueriesUsing(ct)
	return nil
}
