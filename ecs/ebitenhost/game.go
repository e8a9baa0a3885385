// Package ebitenhost drives a Scene from the Ebiten game loop.
//
// Each Ebiten Update tick runs the scene's update pass with a fixed delta of
// 1/TPS, and each Draw runs the scene's draw pass with the screen image as the
// frame canvas. Draw systems and behaviours retrieve it with [Screen].
package ebitenhost

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/scenery/ecs"
)

// Hooks let an overlay such as a Dear ImGui backend run around the scene's
// passes. Every field is optional.
type Hooks struct {
	BeforeUpdate func()
	AfterUpdate  func()
	BeforeDraw   func(screen *ebiten.Image)
	AfterDraw    func(screen *ebiten.Image)
	Layout       func(width, height int)
}

type Option func(*Game)

// WithScreenSize fixes the logical screen size. By default the logical size
// follows the window.
func WithScreenSize(width, height int) Option {
	return func(g *Game) {
		g.width = width
		g.height = height
	}
}

// WithHooks appends hooks. Hooks run in the order they were added.
func WithHooks(hooks Hooks) Option {
	return func(g *Game) {
		g.hooks = append(g.hooks, hooks)
	}
}

// Game implements ebiten.Game on top of a Scene.
type Game struct {
	scene  *ecs.Scene
	hooks  []Hooks
	width  int
	height int
	quit   bool
}

func NewGame(scene *ecs.Scene, opts ...Option) *Game {
	g := &Game{scene: scene}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Game) Scene() *ecs.Scene {
	return g.scene
}

// Quit makes the next Update return ebiten.Termination.
func (g *Game) Quit() {
	g.quit = true
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}

	for _, h := range g.hooks {
		if h.BeforeUpdate != nil {
			h.BeforeUpdate()
		}
	}

	g.scene.Update(deltaTime())

	for _, h := range g.hooks {
		if h.AfterUpdate != nil {
			h.AfterUpdate()
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	for _, h := range g.hooks {
		if h.BeforeDraw != nil {
			h.BeforeDraw(screen)
		}
	}

	g.scene.DrawTo(deltaTime(), screen)

	for _, h := range g.hooks {
		if h.AfterDraw != nil {
			h.AfterDraw(screen)
		}
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	width, height := outsideWidth, outsideHeight
	if g.width > 0 && g.height > 0 {
		width, height = g.width, g.height
	}

	for _, h := range g.hooks {
		if h.Layout != nil {
			h.Layout(width, height)
		}
	}
	return width, height
}

// Screen returns the frame's canvas as an Ebiten image, or nil outside a draw
// pass driven by Game.
func Screen(frame *ecs.UpdateFrame) *ebiten.Image {
	if frame == nil {
		return nil
	}
	screen, _ := frame.Canvas.(*ebiten.Image)
	return screen
}

// Run opens a window titled title and blocks until the game terminates.
func Run(scene *ecs.Scene, title string, opts ...Option) error {
	game := NewGame(scene, opts...)
	ebiten.SetWindowTitle(title)
	if game.width > 0 && game.height > 0 {
		ebiten.SetWindowSize(game.width, game.height)
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(game)
}

func deltaTime() float64 {
	return 1.0 / float64(ebiten.TPS())
}
