package ecs

import "reflect"

// Props is the initial-property bag a component is constructed from. Keys
// name exported struct fields on the component; matching values are merged
// onto the new instance.
type Props map[string]any

// Component is a typed data record attached to exactly one entity at a time.
// Implementations embed BaseComponent and add their data fields.
type Component interface {
	// OnAttached runs after the component has been stored on its entity.
	OnAttached(e *Entity)
	// OnDestroyed is an extension point for entity destruction. The runtime
	// never invokes it: detaching a component does not destroy it.
	OnDestroyed()
	// OnEvent is an extension point for listeners that forward structural
	// events to components.
	OnEvent(ev Event)
}

// Factory builds a component instance from a property bag.
type Factory func(props Props) Component

// BaseComponent provides the default lifecycle hooks. OnAttached records the
// owning entity; the remaining hooks are no-ops.
type BaseComponent struct {
	Entity *Entity
}

func (b *BaseComponent) OnAttached(e *Entity) { b.Entity = e }
func (b *BaseComponent) OnDestroyed()         {}
func (b *BaseComponent) OnEvent(Event)        {}

type componentPtr[T any] interface {
	*T
	Component
}

// RegisterComponent registers T under the given name with a reflection
// factory: Attach allocates a *T and merges the property bag onto its
// exported fields by name.
//
//	ecs.RegisterComponent[Position](world, "Position")
func RegisterComponent[T any, PT componentPtr[T]](w *World, name string) error {
	return w.RegisterComponentType(name, func(props Props) Component {
		c := PT(new(T))
		applyProps(c, props)
		return c
	})
}

// applyProps assigns property-bag values to matching exported fields,
// converting where the types allow. Unknown keys and incompatible values are
// skipped.
func applyProps(component any, props Props) {
	if len(props) == 0 {
		return
	}
	v := reflect.ValueOf(component).Elem()
	for key, val := range props {
		f := v.FieldByName(key)
		if !f.IsValid() || !f.CanSet() {
			continue
		}
		if val == nil {
			f.SetZero()
			continue
		}
		rv := reflect.ValueOf(val)
		switch {
		case rv.Type().AssignableTo(f.Type()):
			f.Set(rv)
		case canConvert(rv.Type(), f.Type()):
			f.Set(rv.Convert(f.Type()))
		}
	}
}

// canConvert permits numeric widening but not the integer-to-string
// conversions reflect would otherwise allow.
func canConvert(from, to reflect.Type) bool {
	if to.Kind() == reflect.String && from.Kind() != reflect.String {
		return false
	}
	return from.ConvertibleTo(to)
}
