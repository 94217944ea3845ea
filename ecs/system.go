package ecs

// System is a per-tick behavior unit. Systems read query results from their
// world to find relevant entities. Implementations embed BaseSystem for the
// default hooks and the world binding.
type System interface {
	// Update runs once per tick with the elapsed time.
	Update(dt float64)
	// OnRegistration runs exactly once, after the system has been stored in
	// its world and before any tick.
	OnRegistration()
}

// BaseSystem provides no-op defaults and carries the world the system was
// registered with.
type BaseSystem struct {
	World *World
}

func (s *BaseSystem) Update(float64)  {}
func (s *BaseSystem) OnRegistration() {}

func (s *BaseSystem) bindWorld(w *World) { s.World = w }

type worldBinder interface {
	bindWorld(w *World)
}
