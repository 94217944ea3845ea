package ecs

import "github.com/kamstrup/intmap"

// typeID is the stable handle a component-type name resolves to at
// registration time. Hot paths compare handles, never strings.
type typeID uint32

// ComponentType is the per-type index record: the registered name, its
// resolved handle, the component factory, and the set of entities currently
// holding a component of the type. One record exists per registered name and
// lives for the lifetime of its world.
type ComponentType struct {
	name    string
	id      typeID
	build   Factory
	present *intmap.Set[EntityID]
}

func newComponentType(name string, id typeID, build Factory) *ComponentType {
	return &ComponentType{
		name:    name,
		id:      id,
		build:   build,
		present: intmap.NewSet[EntityID](64),
	}
}

// Name returns the registered type name.
func (ct *ComponentType) Name() string { return ct.name }

// Contains reports whether the entity currently holds a component of this
// type. O(1).
func (ct *ComponentType) Contains(id EntityID) bool {
	return ct.present.Has(id)
}

// Len returns the number of entities currently holding this type.
func (ct *ComponentType) Len() int { return ct.present.Len() }

func (ct *ComponentType) add(id EntityID)    { ct.present.Add(id) }
func (ct *ComponentType) remove(id EntityID) { ct.present.Del(id) }
