// Package debugui provides immediate-mode GUI inspection for ECS scenes using Dear ImGui.
// The Inspector system renders its windows during the scene's draw pass; ImguiItem
// components let any entity contribute its own widgets.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/scenery/ecs"
)

// ImguiItem is a behaviour component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each draw pass.
type ImguiItem struct {
	ecs.BehaviourBase
	Render func()
}

func (i *ImguiItem) Draw(*ecs.UpdateFrame) {
	if i.Render != nil {
		i.Render()
	}
}

// ImguiInputState tracks Dear ImGui's input capture state.
// Use this to determine if ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Inspector is a system that draws the debug windows: entity browser,
// component inspector, behaviour viewer and performance stats.
// It must be drawn between the ImGui backend's BeginFrame and EndFrame.
type Inspector struct {
	ecs.BaseSystem

	InputState ImguiInputState

	browser     EntityBrowserComponent
	components  ComponentInspectorComponent
	behaviours  BehaviourViewerComponent
	performance PerformanceStatsComponent
	timer       *FrameTimer
}

// NewInspector creates an inspector showing up to entitiesPerPage rows in the
// entity browser.
func NewInspector(entitiesPerPage int) *Inspector {
	return &Inspector{
		browser:     NewEntityBrowserComponent(entitiesPerPage),
		components:  NewComponentInspectorComponent(),
		behaviours:  NewBehaviourViewerComponent(),
		performance: NewPerformanceStatsComponent(120),
		timer:       NewFrameTimer(),
	}
}

// Update refreshes the input capture state.
func (i *Inspector) Update(*ecs.UpdateFrame) {
	io := imgui.CurrentIO()
	i.InputState.WantCaptureMouse = io.WantCaptureMouse()
	i.InputState.WantCaptureKeyboard = io.WantCaptureKeyboard()
}

// Draw renders all inspector windows.
func (i *Inspector) Draw(frame *ecs.UpdateFrame) {
	scene := frame.Scene
	if scene == nil {
		return
	}

	i.browser.Render(scene)
	i.components.Render(scene, i.browser.GetSelectedEntity())
	i.behaviours.Render(scene)
	i.performance.Render(scene, i.timer.GetDeltaTime())
}

// SelectedEntity returns the entity currently selected in the browser.
func (i *Inspector) SelectedEntity() ecs.EntityId {
	return i.browser.GetSelectedEntity()
}
