package world

import (
	"fmt"

	"github.com/samdwyer/escaperoom/internal/action"
	"github.com/samdwyer/escaperoom/internal/entity"
	"github.com/samdwyer/escaperoom/internal/gamedata"
)

// BuildingFile is the JSON layout of building.json.
type BuildingFile struct {
	Floors []FloorDef `json:"floors"`
}

// FloorDef defines a floor.
type FloorDef struct {
	ID    string    `json:"id"`
	Rooms []RoomDef `json:"rooms"`
}

// RoomDef defines a room.
type RoomDef struct {
	ID       string      `json:"id"`
	Entities []EntityDef `json:"entities"`
}

// EntityDef defines an entity and its states.
type EntityDef struct {
	ID     string     `json:"id"`
	States []StateDef `json:"states"`
}

// StateDef defines one entity state. Capabilities default to
// entity.DefaultCapabilities when omitted.
type StateDef struct {
	ID           string               `json:"id"`
	Capabilities *entity.Capabilities `json:"capabilities,omitempty"`
	Attack       *action.Spec         `json:"attack,omitempty"`
	Inspect      *action.Spec         `json:"inspect,omitempty"`
	Interact     *action.Spec         `json:"interact,omitempty"`
	Input        *action.Spec         `json:"input,omitempty"`
}

// LoadBuilding builds the world from the embedded building.json.
func LoadBuilding(texts gamedata.TextResolver) (*Building, error) {
	file, err := gamedata.Load[BuildingFile]("building.json")
	if err != nil {
		return nil, err
	}
	return Build(file, texts)
}

// MustLoadBuilding loads the embedded building, panicking on error.
func MustLoadBuilding(texts gamedata.TextResolver) *Building {
	b, err := LoadBuilding(texts)
	if err != nil {
		panic(err)
	}
	return b
}

// Build compiles building definitions into the content graph and checks that
// every floor change and swap in it points at real content.
func Build(file BuildingFile, texts gamedata.TextResolver) (*Building, error) {
	if len(file.Floors) == 0 {
		return nil, fmt.Errorf("building has no floors")
	}

	b := &Building{}
	seen := map[string]bool{}
	for _, fd := range file.Floors {
		if len(fd.Rooms) == 0 {
			return nil, fmt.Errorf("floor %q has no rooms", fd.ID)
		}
		floor := &Floor{ID: fd.ID}
		for _, rd := range fd.Rooms {
			room := &Room{ID: rd.ID}
			for _, ed := range rd.Entities {
				if seen[ed.ID] {
					return nil, fmt.Errorf("entity %q is defined twice", ed.ID)
				}
				seen[ed.ID] = true

				e, err := buildEntity(ed, texts)
				if err != nil {
					return nil, fmt.Errorf("room %q: %w", rd.ID, err)
				}
				room.Entities = append(room.Entities, e)
			}
			floor.Rooms = append(floor.Rooms, room)
		}
		b.Floors = append(b.Floors, floor)
	}

	if err := b.validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func buildEntity(ed EntityDef, texts gamedata.TextResolver) (*entity.Entity, error) {
	states := make([]*entity.State, 0, len(ed.States))
	for _, sd := range ed.States {
		var verbs [4]action.Action
		for i, spec := range []*action.Spec{sd.Attack, sd.Inspect, sd.Interact, sd.Input} {
			a, err := action.Build(spec, texts)
			if err != nil {
				return nil, fmt.Errorf("entity %q state %q: %w", ed.ID, sd.ID, err)
			}
			verbs[i] = a
		}
		caps := entity.DefaultCapabilities()
		if sd.Capabilities != nil {
			caps = *sd.Capabilities
		}
		states = append(states, entity.NewStateWithCapabilities(sd.ID, verbs[0], verbs[1], verbs[2], verbs[3], caps))
	}
	return entity.New(ed.ID, states...)
}

// validate walks every action and checks its floor and swap references.
func (b *Building) validate() error {
	for _, floor := range b.Floors {
		for _, e := range floor.Entities() {
			for _, name := range e.StateNames() {
				state, _ := e.Lookup(name)
				for _, verb := range []entity.Verb{entity.VerbAttack, entity.VerbInspect, entity.VerbInteract, entity.VerbInput} {
					var err error
					action.Walk(state.Action(verb), func(a action.Action) {
						if err != nil {
							return
						}
						err = b.checkReference(floor, a)
					})
					if err != nil {
						return fmt.Errorf("entity %q state %q %s: %w", e.ID(), name, verb, err)
					}
				}
			}
		}
	}
	return nil
}

func (b *Building) checkReference(floor *Floor, a action.Action) error {
	switch v := a.(type) {
	case *action.SetFloor:
		if _, ok := b.Floor(v.Floor()); !ok {
			return gamedata.NewContentReferenceError(gamedata.RefFloor, fmt.Sprint(v.Floor()))
		}
	case *action.SwapEntities:
		id, name := v.Target()
		target := floor.FindEntity(id)
		if target == nil {
			return gamedata.NewContentReferenceError(gamedata.RefEntity, id)
		}
		if !target.HasState(name) {
			return gamedata.NewContentReferenceError(gamedata.RefState, id+"/"+name)
		}
	}
	return nil
}
