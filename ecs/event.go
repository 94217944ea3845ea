package ecs

// EventKind discriminates structural change notifications. The variant set is
// fixed. Attaching a component publishes ComponentAttached; detaching forces
// query rebuilds instead of publishing, so ComponentDetached is declared but
// currently never published.
type EventKind uint8

const (
	ComponentAttached EventKind = iota + 1
	ComponentDetached
)

func (k EventKind) String() string {
	switch k {
	case ComponentAttached:
		return "component-attached"
	case ComponentDetached:
		return "component-detached"
	default:
		return "unknown"
	}
}

// Event is a structural change notification. Listeners receive it
// synchronously, inside the mutating call.
type Event struct {
	Kind      EventKind
	Entity    *Entity
	Component Component
	Type      *ComponentType
}
