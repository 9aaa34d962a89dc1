package main

import (
	"context"
	"time"

	coresys "github.com/ove/engine/internal/core/system"
)

// driver is the part of system.Manager the loop needs.
type driver interface {
	Update(dt coresys.Delta)
	Render()
}

// runLoop drives Update and Render once per tick until ctx is done or
// maxFrames frames have run (0 = no limit). dt is the measured time since
// the previous frame. It returns the number of frames run.
func runLoop(ctx context.Context, d driver, tick time.Duration, maxFrames int) int {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	frames := 0
	last := time.Now()
	for maxFrames == 0 || frames < maxFrames {
		select {
		case now := <-ticker.C:
			d.Update(coresys.DeltaOf(now.Sub(last)))
			d.Render()
			last = now
			frames++
		case <-ctx.Done():
			return frames
		}
	}
	return frames
}
