// Package ebiten provides Dear ImGui backend integration for the Ebiten game engine.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/scenery/ecs/ebitenhost"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
// Use this to integrate Dear ImGui rendering into Ebiten game loops.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// NewImguiBackend creates the backend and its window. The imgui.ini file is
// disabled so window layout is not persisted between runs.
func NewImguiBackend(title string, width, height int) *ImguiBackend {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	return &ImguiBackend{EbitenBackend: backend}
}

// Hooks returns host hooks that wrap the scene's draw pass in an ImGui frame,
// so debugui.Inspector and ImguiItem components build their widgets while the
// scene draws, and the overlay is rendered on top of the scene.
func (b *ImguiBackend) Hooks() ebitenhost.Hooks {
	return ebitenhost.Hooks{
		BeforeDraw: func(*ebiten.Image) {
			b.BeginFrame()
		},
		AfterDraw: func(screen *ebiten.Image) {
			b.EndFrame()
			b.Draw(screen)
		},
		Layout: func(width, height int) {
			b.Layout(width, height)
		},
	}
}
