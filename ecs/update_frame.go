package ecs

import "log/slog"

// UpdateFrame is passed to every system and behaviour during a pass.
type UpdateFrame struct {
	DeltaTime float64
	// Tick counts passes of the same kind (update or draw) on the scene.
	Tick     uint64
	Scene    *Scene
	Commands *Commands
	// Canvas is the render target supplied by the host for draw passes.
	// It is nil for update passes and headless draws.
	Canvas any
}

func newUpdateFrame(dt float64, tick uint64, scene *Scene, canvas any) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Tick:      tick,
		Scene:     scene,
		Commands:  scene.commands,
		Canvas:    canvas,
	}
}

func (f *UpdateFrame) logger() *slog.Logger {
	if f == nil || f.Scene == nil {
		return discardLogger
	}
	return f.Scene.logger
}
