package ecs

import "time"

// SceneStats is a snapshot of a scene's size and per-system timings.
type SceneStats struct {
	EntityCount    int
	ComponentCount int
	SystemCount    int
	UpdateTicks    uint64
	DrawTicks      uint64
	Systems        []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name      string
	Updatable bool
	Drawable  bool
	Update    PassStats
	Draw      PassStats
}

// PassStats aggregates the durations of one kind of pass for a system.
type PassStats struct {
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type passStatsInternal struct {
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func newPassStats() passStatsInternal {
	return passStatsInternal{
		minDuration: time.Duration(1<<63 - 1),
	}
}

func (p *passStatsInternal) record(duration time.Duration) {
	p.executionCount++
	p.lastDuration = duration
	p.totalDuration += duration

	if duration < p.minDuration {
		p.minDuration = duration
	}
	if duration > p.maxDuration {
		p.maxDuration = duration
	}
}

func (p *passStatsInternal) snapshot() PassStats {
	if p.executionCount == 0 {
		return PassStats{}
	}
	return PassStats{
		ExecutionCount: p.executionCount,
		MinDuration:    p.minDuration,
		MaxDuration:    p.maxDuration,
		AvgDuration:    p.totalDuration / time.Duration(p.executionCount),
		LastDuration:   p.lastDuration,
		TotalDuration:  p.totalDuration,
	}
}

// Stats collects a snapshot of the scene.
func (s *Scene) Stats() *SceneStats {
	stats := &SceneStats{
		EntityCount: s.entities.Len(),
		SystemCount: len(s.systems),
		UpdateTicks: s.updateTicks,
		DrawTicks:   s.drawTicks,
		Systems:     make([]SystemStats, len(s.systems)),
	}

	for _, entity := range s.entities.All() {
		stats.ComponentCount += entity.ComponentCount()
	}

	for i, entry := range s.systems {
		_, updatable := entry.system.(UpdateSystem)
		_, drawable := entry.system.(DrawSystem)
		stats.Systems[i] = SystemStats{
			Name:      systemName(entry.typ),
			Updatable: updatable,
			Drawable:  drawable,
			Update:    entry.update.snapshot(),
			Draw:      entry.draw.snapshot(),
		}
	}

	return stats
}
