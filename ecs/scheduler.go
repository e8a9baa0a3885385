package ecs

import (
	"context"
	"time"
)

// Run drives the scene at the given interval until the context is cancelled.
// Each tick runs one update pass followed by one headless draw pass, with the
// wall-clock time since the previous tick as the delta.
func (s *Scene) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Update(dt)
			s.Draw(dt)
		}
	}
}
