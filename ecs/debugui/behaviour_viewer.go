package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/scenery/ecs"
)

type BehaviourInfo struct {
	Index     int
	Component string
	EntityId  ecs.EntityId
	Borrowed  bool
}

func NewBehaviourViewerComponent() BehaviourViewerComponent {
	return BehaviourViewerComponent{}
}

// collectBehaviours lists the behaviour system's subscriptions in dispatch order.
func collectBehaviours(scene *ecs.Scene) ([]BehaviourInfo, bool) {
	behaviours, ok := ecs.GetSystem[*ecs.BehaviourSystem](scene)
	if !ok {
		return nil, false
	}

	handles := behaviours.Subscriptions()
	infos := make([]BehaviourInfo, len(handles))
	for i, handle := range handles {
		entityId := ecs.InvalidEntityId
		if behaviour, ok := handle.Behaviour(); ok {
			entityId = entityIdOf(behaviour)
		}
		infos[i] = BehaviourInfo{
			Index:     i,
			Component: handle.Type().String(),
			EntityId:  entityId,
			Borrowed:  handle.IsBorrowed(),
		}
	}
	return infos, true
}

func entityIdOf(behaviour ecs.Behaviour) ecs.EntityId {
	if owner, ok := behaviour.(interface{ EntityId() ecs.EntityId }); ok {
		return owner.EntityId()
	}
	if owner, ok := behaviour.(interface{ Entity() *ecs.Entity }); ok {
		if entity := owner.Entity(); entity != nil {
			return entity.Id()
		}
	}
	return ecs.InvalidEntityId
}

func (bv *BehaviourViewerComponent) Render(scene *ecs.Scene) {
	if !imgui.BeginV("Behaviours", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	infos, ok := collectBehaviours(scene)
	if !ok {
		imgui.Text("No BehaviourSystem installed")
		imgui.End()
		return
	}

	imgui.Checkbox("Borrowed only", &bv.showBorrowedOnly)
	imgui.Text(fmt.Sprintf("Subscribed: %d", len(infos)))

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("BehaviourTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("#")
		imgui.TableSetupColumn("Component")
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("Borrowed")
		imgui.TableHeadersRow()

		for _, info := range infos {
			if bv.showBorrowedOnly && !info.Borrowed {
				continue
			}
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", info.Index))
			imgui.TableNextColumn()
			imgui.Text(info.Component)
			imgui.TableNextColumn()
			if info.EntityId == ecs.InvalidEntityId {
				imgui.Text("-")
			} else {
				imgui.Text(fmt.Sprintf("%d", info.EntityId))
			}
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%t", info.Borrowed))
		}

		imgui.EndTable()
	}

	imgui.End()
}
