package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/pkg/profile"
	"go.uber.org/zap"

	"github.com/plus3/dynecs/ecs"
)

// StressComponent is the single data shape behind every generated kind. Kinds
// differ only by their registered name, which is exactly what the dynamic
// registry has to index.
type StressComponent struct {
	ecs.BaseComponent
	Value int
}

// churnSystem attaches and detaches random kinds on random entities every
// tick, driving both query maintenance paths.
type churnSystem struct {
	ecs.BaseSystem
	rng      *rand.Rand
	entities []*ecs.Entity
	kinds    []string
	scenario Scenario

	attaches     int64
	detaches     int64
	detachMisses int64
}

func (s *churnSystem) Update(dt float64) {
	for i := 0; i < s.scenario.AttachPerTick; i++ {
		e := s.entities[s.rng.Intn(len(s.entities))]
		kind := s.kinds[s.rng.Intn(len(s.kinds))]
		if _, err := e.Attach(kind, ecs.Props{"Value": s.rng.Intn(1000)}); err != nil {
			panic(err) // all kinds are registered, this cannot fail
		}
		s.attaches++
	}
	for i := 0; i < s.scenario.DetachPerTick; i++ {
		e := s.entities[s.rng.Intn(len(s.entities))]
		kind := s.kinds[s.rng.Intn(len(s.kinds))]
		if err := e.Detach(kind); err != nil {
			s.detachMisses++
			continue
		}
		s.detaches++
	}
}

// readerSystem drains its query every tick, the way game systems consume
// cached results.
type readerSystem struct {
	ecs.BaseSystem
	logic    []string
	checksum uint64
}

func (s *readerSystem) Update(dt float64) {
	q := s.World.Query(s.logic...)
	for id := range q.Entities() {
		s.checksum += uint64(id)
	}
}

func main() {
	configPath := flag.String("config", "", "Path to a TOML scenario file.")
	entityCount := flag.Int("entities", 0, "Override: number of entities to create.")
	tickCount := flag.Int("ticks", 0, "Override: number of ticks to run.")
	seed := flag.Int64("seed", 0, "Override: RNG seed.")
	idSource := flag.String("id-source", "", "Override: entity id source (sequential|uuid).")
	profileMode := flag.String("profile", "", "Enable profiling (cpu|mem).")
	verbose := flag.Bool("v", false, "Verbose logging from the world.")
	flag.Parse()

	scenario, err := loadScenario(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: load scenario: %v\n", err)
		os.Exit(1)
	}
	if *entityCount > 0 {
		scenario.Entities = *entityCount
	}
	if *tickCount > 0 {
		scenario.Ticks = *tickCount
	}
	if *seed != 0 {
		scenario.Seed = *seed
	}
	if *idSource != "" {
		scenario.IDSource = *idSource
	}

	switch *profileMode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	case "":
	default:
		fmt.Fprintf(os.Stderr, "fatal: unknown profile mode %q\n", *profileMode)
		os.Exit(1)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	worldLog := zap.NewNop()
	if *verbose {
		worldLog = logger
	}

	opts := []ecs.Option{ecs.WithLogger(worldLog)}
	switch scenario.IDSource {
	case "uuid":
		opts = append(opts, ecs.WithIDSource(ecs.NewUUIDSource()))
	case "sequential", "":
	default:
		log.Fatalf("unknown id source %q", scenario.IDSource)
	}

	log.Infow("starting stress run",
		"entities", scenario.Entities,
		"ticks", scenario.Ticks,
		"kinds", scenario.Kinds,
		"queries", scenario.Queries,
		"seed", scenario.Seed,
	)

	// 1. World, kinds, entities.
	w := ecs.NewWorld(opts...)
	kinds := make([]string, scenario.Kinds)
	for i := range kinds {
		kinds[i] = fmt.Sprintf("Kind%02d", i)
		if err := ecs.RegisterComponent[StressComponent](w, kinds[i]); err != nil {
			log.Fatalw("register kind", "kind", kinds[i], "error", err)
		}
	}

	rng := rand.New(rand.NewSource(scenario.Seed))
	entities := make([]*ecs.Entity, scenario.Entities)
	for i := range entities {
		entities[i] = w.CreateEntity()
		// Seed each entity with a few random kinds.
		for j := 0; j < 1+rng.Intn(3); j++ {
			kind := kinds[rng.Intn(len(kinds))]
			if _, err := entities[i].Attach(kind, ecs.Props{"Value": rng.Intn(1000)}); err != nil {
				log.Fatalw("seed attach", "error", err)
			}
		}
	}

	// 2. Queries and systems.
	queries := make([]*ecs.Query, 0, scenario.Queries)
	churn := &churnSystem{rng: rng, entities: entities, kinds: kinds, scenario: scenario}
	if err := w.RegisterSystem("churn", churn); err != nil {
		log.Fatalw("register churn system", "error", err)
	}
	for i := 0; i < scenario.Queries; i++ {
		logic := make([]string, 0, scenario.QueryWidth)
		for j := 0; j < scenario.QueryWidth; j++ {
			logic = append(logic, kinds[(i+j)%len(kinds)])
		}
		queries = append(queries, w.Query(logic...))
		name := fmt.Sprintf("reader-%02d", i)
		if err := w.RegisterSystem(name, &readerSystem{logic: logic}); err != nil {
			log.Fatalw("register reader system", "error", err)
		}
	}

	// 3. Drive ticks, sampling update time and verifying the indexes.
	report := &Report{
		Scenario:   scenario,
		UpdateTime: Stats{Samples: make([]time.Duration, 0, scenario.Ticks)},
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	start := time.Now()
	last := start
	for tick := 1; tick <= scenario.Ticks; tick++ {
		now := time.Now()
		dt := now.Sub(last).Seconds()
		last = now

		tickStart := time.Now()
		w.Tick(dt)
		report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(tickStart))

		if scenario.VerifyEvery > 0 && tick%scenario.VerifyEvery == 0 {
			report.InvariantChecks++
			if failures := verify(w, entities, kinds, queries); failures > 0 {
				report.InvariantFailures += failures
				log.Errorw("invariant check failed", "tick", tick, "failures", failures)
			}
		}
	}
	report.TotalTime = time.Since(start)
	report.TotalTicks = int64(scenario.Ticks)
	report.Attaches = churn.attaches
	report.Detaches = churn.detaches
	report.DetachMisses = churn.detachMisses
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Infow("stress run finished",
		"attaches", churn.attaches,
		"detaches", churn.detaches,
		"detach_misses", churn.detachMisses,
	)

	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalw("generate report", "error", err)
	}

	if report.InvariantFailures > 0 {
		os.Exit(1)
	}
}

// verify cross-checks every presence index and every live query cache against
// a brute-force scan of the entities. Returns the number of disagreements.
func verify(w *ecs.World, entities []*ecs.Entity, kinds []string, queries []*ecs.Query) int {
	failures := 0

	for _, kind := range kinds {
		ct, ok := w.Type(kind)
		if !ok {
			failures++
			continue
		}
		held := 0
		for _, e := range entities {
			if e.Has(kind) != ct.Contains(e.ID()) {
				failures++
			}
			if e.Has(kind) {
				held++
			}
		}
		if held != ct.Len() {
			failures++
		}
	}

	for _, q := range queries {
		logic := q.Logic()
		matched := 0
		for _, e := range entities {
			all := true
			for _, token := range logic {
				if !e.Has(strings.TrimPrefix(token, ecs.NegationPrefix)) {
					all = false
					break
				}
			}
			if all != q.Contains(e.ID()) {
				failures++
			}
			if all {
				matched++
			}
		}
		if matched != q.Len() {
			failures++
		}
	}

	return failures
}
