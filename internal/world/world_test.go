package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/escaperoom/internal/action"
	"github.com/samdwyer/escaperoom/internal/entity"
	"github.com/samdwyer/escaperoom/internal/gamedata"
)

func testTexts(t *testing.T) *gamedata.Catalog {
	t.Helper()
	return gamedata.MustLoadBundle().Catalog(gamedata.BaseLocale)
}

func TestLoadBuilding(t *testing.T) {
	texts := testTexts(t)
	b, err := LoadBuilding(texts)
	require.NoError(t, err)

	require.Len(t, b.Floors, 2)
	assert.Equal(t, "basement", b.Floors[0].ID)
	assert.Equal(t, "cell", b.Floors[0].Rooms[0].ID)
	assert.Equal(t, "Cell", b.Floors[0].Rooms[0].Name(texts))
	assert.Equal(t, "Basement", b.Floors[0].Name(texts))
	assert.NotContains(t, b.Floors[0].Rooms[0].Intro(texts), "Missing text")

	hatch := b.Floors[0].FindEntity("hatch")
	require.NotNil(t, hatch)
	assert.Equal(t, "hatch", hatch.State().ID())
	assert.True(t, hatch.State().Capabilities().Input)

	assert.Nil(t, b.Floors[0].FindEntity("terminal"), "entities are scoped to their floor")
	assert.NotNil(t, b.Floors[1].FindEntity("terminal"))
}

func TestEveryEntityHasText(t *testing.T) {
	texts := testTexts(t)
	b := MustLoadBuilding(texts)

	for _, floor := range b.Floors {
		for _, room := range floor.Rooms {
			assert.True(t, texts.Has(gamedata.NamespaceRooms, room.ID), "room %s", room.ID)
			for _, e := range room.Entities {
				assert.True(t, texts.Has(gamedata.NamespaceEntities, e.ID()+".name"), "entity %s", e.ID())
				for _, name := range e.StateNames() {
					state, ok := e.Lookup(name)
					require.True(t, ok)
					if state.Capabilities().Inspect {
						key := e.ID() + "." + name + ".inspect"
						assert.True(t, texts.Has(gamedata.NamespaceEntities, key), "missing %s", key)
					}
				}
			}
		}
	}
}

func TestEntityStatesRoundTrip(t *testing.T) {
	b := MustLoadBuilding(testTexts(t))

	initial := b.EntityStates()
	assert.Equal(t, "grate", initial["grate"])

	require.NoError(t, b.Floors[0].FindEntity("grate").SwapState("grate_open"))
	saved := b.EntityStates()
	assert.Equal(t, "grate_open", saved["grate"])

	b.ResetStates()
	assert.Equal(t, initial, b.EntityStates())

	require.NoError(t, b.RestoreStates(saved))
	assert.Equal(t, saved, b.EntityStates())

	err := b.RestoreStates(map[string]string{"grate": "melted", "bed": "bed_searched"})
	var refErr *gamedata.ContentReferenceError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "bed_searched", b.EntityStates()["bed"], "valid entries still apply")
}

func TestBuildingLookups(t *testing.T) {
	b := MustLoadBuilding(testTexts(t))

	_, ok := b.Floor(-1)
	assert.False(t, ok)
	_, ok = b.Floor(2)
	assert.False(t, ok)

	room, ok := b.Room(0, 1)
	require.True(t, ok)
	assert.Equal(t, "workshop", room.ID)
	_, ok = b.Room(0, 5)
	assert.False(t, ok)

	e := room.Entities[1]
	assert.Equal(t, 1, room.EntityIndex(e))
	assert.Equal(t, -1, room.EntityIndex(entity.MustNew("ghost", entity.NewState("ghost", nil, nil, nil, nil))))
}

func TestBuildRejectsBrokenReferences(t *testing.T) {
	texts := gamedata.NewCatalog(nil)
	floor := 3

	tests := []struct {
		name string
		file BuildingFile
	}{
		{"no floors", BuildingFile{}},
		{"empty floor", BuildingFile{Floors: []FloorDef{{ID: "f"}}}},
		{"entity without states", BuildingFile{Floors: []FloorDef{{ID: "f", Rooms: []RoomDef{{
			ID: "r", Entities: []EntityDef{{ID: "e"}},
		}}}}}},
		{"duplicate entity", BuildingFile{Floors: []FloorDef{{ID: "f", Rooms: []RoomDef{{
			ID: "r", Entities: []EntityDef{
				{ID: "e", States: []StateDef{{ID: "e"}}},
				{ID: "e", States: []StateDef{{ID: "e"}}},
			},
		}}}}}},
		{"unknown swap entity", BuildingFile{Floors: []FloorDef{{ID: "f", Rooms: []RoomDef{{
			ID: "r", Entities: []EntityDef{{ID: "e", States: []StateDef{{
				ID:       "e",
				Interact: &action.Spec{Type: "swapEntities", Entity: "ghost", State: "x"},
			}}}},
		}}}}}},
		{"unknown swap state", BuildingFile{Floors: []FloorDef{{ID: "f", Rooms: []RoomDef{{
			ID: "r", Entities: []EntityDef{{ID: "e", States: []StateDef{{
				ID:     "e",
				Attack: &action.Spec{Type: "swapEntities", Entity: "e", State: "x"},
			}}}},
		}}}}}},
		{"unknown floor", BuildingFile{Floors: []FloorDef{{ID: "f", Rooms: []RoomDef{{
			ID: "r", Entities: []EntityDef{{ID: "e", States: []StateDef{{
				ID:    "e",
				Input: &action.Spec{Type: "setFloor", Floor: &floor},
			}}}},
		}}}}}},
		{"bad action", BuildingFile{Floors: []FloorDef{{ID: "f", Rooms: []RoomDef{{
			ID: "r", Entities: []EntityDef{{ID: "e", States: []StateDef{{
				ID:      "e",
				Inspect: &action.Spec{Type: "explode"},
			}}}},
		}}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.file, texts)
			assert.Error(t, err)
		})
	}
}

func TestBuildAppliesCapabilities(t *testing.T) {
	file := BuildingFile{Floors: []FloorDef{{ID: "f", Rooms: []RoomDef{{
		ID: "r", Entities: []EntityDef{{ID: "e", States: []StateDef{
			{ID: "e"},
			{ID: "quiet", Capabilities: &entity.Capabilities{Inspect: true}},
		}}},
	}}}}}

	b, err := Build(file, gamedata.NewCatalog(nil))
	require.NoError(t, err)

	e := b.Floors[0].FindEntity("e")
	def, _ := e.Lookup("e")
	quiet, _ := e.Lookup("quiet")
	assert.Equal(t, entity.DefaultCapabilities(), def.Capabilities())
	assert.Equal(t, entity.Capabilities{Inspect: true}, quiet.Capabilities())
}
