package ecs

import "log/slog"

var discardLogger = slog.New(slog.DiscardHandler)

type sceneConfig struct {
	logger         *slog.Logger
	entityCapacity int
	behaviours     bool
}

// SceneOption configures a Scene at construction.
type SceneOption func(*sceneConfig)

// WithLogger sets the logger used for diagnostics of fail-soft operations.
// By default nothing is logged.
func WithLogger(logger *slog.Logger) SceneOption {
	return func(c *sceneConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithEntityCapacity pre-sizes the entity table.
func WithEntityCapacity(capacity int) SceneOption {
	return func(c *sceneConfig) {
		if capacity > 0 {
			c.entityCapacity = capacity
		}
	}
}

// WithBehaviourSystem installs a BehaviourSystem when the scene is created.
func WithBehaviourSystem() SceneOption {
	return func(c *sceneConfig) {
		c.behaviours = true
	}
}
