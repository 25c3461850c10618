package action

import (
	"context"

	"github.com/samdwyer/escaperoom/internal/gamedata"
)

// GiveItem adds an item to the inventory. The empty item is ignored.
type GiveItem struct {
	item gamedata.Item
}

func NewGiveItem(item gamedata.Item) *GiveItem { return &GiveItem{item: item} }

func (g *GiveItem) Kind() Kind { return KindGiveItem }

// Item returns the item given.
func (g *GiveItem) Item() gamedata.Item { return g.item }

func (g *GiveItem) Execute(_ context.Context, s State) error {
	if g.item == "" {
		return nil
	}
	s.AddItem(g.item)
	return nil
}

func (g *GiveItem) sealed() {}

// SetFloor moves the player to a floor of the building and empties the
// inventory. Items never travel between floors.
type SetFloor struct {
	index int
}

func NewSetFloor(index int) *SetFloor { return &SetFloor{index: index} }

func (f *SetFloor) Kind() Kind { return KindSetFloor }

// Floor returns the target floor index.
func (f *SetFloor) Floor() int { return f.index }

func (f *SetFloor) Execute(_ context.Context, s State) error {
	if err := s.SetCurrentFloor(f.index); err != nil {
		return err
	}
	s.ClearItems()
	return nil
}

func (f *SetFloor) sealed() {}

// SetMessage sets the consume-once message.
type SetMessage struct {
	text string
}

func NewSetMessage(text string) *SetMessage { return &SetMessage{text: text} }

func (m *SetMessage) Kind() Kind { return KindSetMessage }

// Text returns the message text.
func (m *SetMessage) Text() string { return m.text }

func (m *SetMessage) Execute(_ context.Context, s State) error {
	s.SetMessage(m.text)
	return nil
}

func (m *SetMessage) sealed() {}

// RemoveTime takes a penalty off the countdown, scaled by difficulty.
type RemoveTime struct {
	severity gamedata.Severity
}

func NewRemoveTime(severity gamedata.Severity) *RemoveTime {
	return &RemoveTime{severity: severity}
}

// NewAddPenalty is NewRemoveTime under the name content authors use.
func NewAddPenalty(severity gamedata.Severity) *RemoveTime {
	return NewRemoveTime(severity)
}

func (r *RemoveTime) Kind() Kind { return KindRemoveTime }

// Severity returns the penalty severity.
func (r *RemoveTime) Severity() gamedata.Severity { return r.severity }

func (r *RemoveTime) Execute(_ context.Context, s State) error {
	s.RemoveTime(Penalty(r.severity, s.Difficulty()))
	return nil
}

func (r *RemoveTime) sealed() {}

// CompletePuzzle marks a puzzle as solved.
type CompletePuzzle struct {
	name string
}

func NewCompletePuzzle(name string) *CompletePuzzle { return &CompletePuzzle{name: name} }

func (p *CompletePuzzle) Kind() Kind { return KindCompletePuzzle }

// Name returns the puzzle name.
func (p *CompletePuzzle) Name() string { return p.name }

func (p *CompletePuzzle) Execute(_ context.Context, s State) error {
	s.CompletePuzzle(p.name)
	return nil
}

func (p *CompletePuzzle) sealed() {}

// SwapEntities switches an entity on the current floor to another state.
// Unknown entities or states are content errors.
type SwapEntities struct {
	entityID  string
	stateName string
}

func NewSwapEntities(entityID, stateName string) *SwapEntities {
	return &SwapEntities{entityID: entityID, stateName: stateName}
}

func (w *SwapEntities) Kind() Kind { return KindSwapEntities }

// Target returns the entity id and state name swapped to.
func (w *SwapEntities) Target() (entityID, stateName string) { return w.entityID, w.stateName }

func (w *SwapEntities) Execute(_ context.Context, s State) error {
	return s.SwapEntityState(w.entityID, w.stateName)
}

func (w *SwapEntities) sealed() {}
