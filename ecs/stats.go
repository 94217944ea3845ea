package ecs

import "time"

// WorldStats provides statistics about tick execution.
type WorldStats struct {
	SystemCount int
	TotalTicks  int64
	Systems     []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

// Stats returns statistics about system execution so far.
func (w *World) Stats() *WorldStats {
	stats := &WorldStats{
		SystemCount: len(w.systems),
		TotalTicks:  w.totalTicks,
		Systems:     make([]SystemStats, len(w.systems)),
	}

	for i, entry := range w.systems {
		avg := time.Duration(0)
		if entry.executionCount > 0 {
			avg = entry.totalDuration / time.Duration(entry.executionCount)
		}
		stats.Systems[i] = SystemStats{
			Name:           entry.name,
			ExecutionCount: entry.executionCount,
			MinDuration:    entry.minDuration,
			MaxDuration:    entry.maxDuration,
			AvgDuration:    avg,
			LastDuration:   entry.lastDuration,
			TotalDuration:  entry.totalDuration,
		}
	}
	return stats
}
