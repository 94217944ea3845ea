package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/plus3/dynecs/ecs"
)

// Common test component kinds.
type Position struct {
	ecs.BaseComponent
	X, Y float64
}

type Velocity struct {
	ecs.BaseComponent
	DX, DY float64
}

type Health struct {
	ecs.BaseComponent
	Current int
	Max     int
}

type Tagged struct {
	ecs.BaseComponent
	Label string
}

// newTestWorld builds a world with the common kinds registered.
func newTestWorld(t *testing.T) *ecs.World {
	t.Helper()
	w := ecs.NewWorld(ecs.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, ecs.RegisterComponent[Position](w, "Position"))
	require.NoError(t, ecs.RegisterComponent[Velocity](w, "Velocity"))
	require.NoError(t, ecs.RegisterComponent[Health](w, "Health"))
	require.NoError(t, ecs.RegisterComponent[Tagged](w, "Tagged"))
	return w
}

// recordSystem appends its name to a shared log on every update.
type recordSystem struct {
	ecs.BaseSystem
	name        string
	tickLog     *[]string
	deltas      []float64
	registered  int
	onceUpdated func(s *recordSystem, dt float64)
}

func (s *recordSystem) OnRegistration() { s.registered++ }

func (s *recordSystem) Update(dt float64) {
	*s.tickLog = append(*s.tickLog, s.name)
	s.deltas = append(s.deltas, dt)
	if s.onceUpdated != nil {
		s.onceUpdated(s, dt)
	}
}

// collectIDs drains a query's iterator into a set.
func collectIDs(q *ecs.Query) map[ecs.EntityID]bool {
	out := make(map[ecs.EntityID]bool, q.Len())
	for id := range q.Entities() {
		out[id] = true
	}
	return out
}
