package ecs_test

import (
	"fmt"

	"github.com/plus3/dynecs/ecs"
)

// movementSystem integrates velocity into position for every matching entity.
type movementSystem struct {
	ecs.BaseSystem
}

func (s *movementSystem) Update(dt float64) {
	q := s.World.Query("Position", "Velocity")
	for id := range q.Entities() {
		e, ok := s.World.Entity(id)
		if !ok {
			continue
		}
		pos, _ := e.Component("Position")
		vel, _ := e.Component("Velocity")
		p := pos.(*Position)
		v := vel.(*Velocity)
		p.X += v.DX * dt
		p.Y += v.DY * dt
	}
}

func ExampleWorld_Tick() {
	w := ecs.NewWorld()
	ecs.RegisterComponent[Position](w, "Position")
	ecs.RegisterComponent[Velocity](w, "Velocity")
	w.RegisterSystem("movement", &movementSystem{})

	e := w.CreateEntity()
	e.Attach("Position", ecs.Props{"X": 0.0, "Y": 0.0})
	e.Attach("Velocity", ecs.Props{"DX": 1.0, "DY": 2.0})

	w.Tick(0.5)
	w.Tick(0.5)

	pos, _ := e.Component("Position")
	p := pos.(*Position)
	fmt.Printf("position after one second: (%.1f, %.1f)\n", p.X, p.Y)
	// Output: position after one second: (1.0, 2.0)
}

func ExampleWorld_Subscribe() {
	w := ecs.NewWorld()
	ecs.RegisterComponent[Health](w, "Health")

	w.Subscribe(func(ev ecs.Event) {
		fmt.Printf("%s: %s\n", ev.Kind, ev.Type.Name())
	})

	e := w.CreateEntity()
	e.Attach("Health", ecs.Props{"Current": 10, "Max": 10})
	// Output: component-attached: Health
}
