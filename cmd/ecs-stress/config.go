package main

import "github.com/BurntSushi/toml"

// Scenario configures a stress run. Values come from a TOML file and may be
// overridden by flags.
type Scenario struct {
	Entities      int    `toml:"entities"`
	Ticks         int    `toml:"ticks"`
	Kinds         int    `toml:"kinds"`
	AttachPerTick int    `toml:"attach_per_tick"`
	DetachPerTick int    `toml:"detach_per_tick"`
	Queries       int    `toml:"queries"`
	QueryWidth    int    `toml:"query_width"`
	Seed          int64  `toml:"seed"`
	IDSource      string `toml:"id_source"` // "sequential" or "uuid"
	VerifyEvery   int    `toml:"verify_every"`
}

func defaultScenario() Scenario {
	return Scenario{
		Entities:      10_000,
		Ticks:         1_000,
		Kinds:         32,
		AttachPerTick: 200,
		DetachPerTick: 100,
		Queries:       8,
		QueryWidth:    3,
		Seed:          1,
		IDSource:      "sequential",
		VerifyEvery:   100,
	}
}

func loadScenario(path string) (Scenario, error) {
	s := defaultScenario()
	if path == "" {
		return s, nil
	}
	_, err := toml.DecodeFile(path, &s)
	return s, err
}
