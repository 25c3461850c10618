// Package world provides the static content graph: a building of floors,
// each an ordered list of rooms holding entities.
package world

import (
	"github.com/samdwyer/escaperoom/internal/entity"
	"github.com/samdwyer/escaperoom/internal/gamedata"
)

// Room is a location on a floor.
type Room struct {
	ID       string
	Entities []*entity.Entity
}

// Name returns the localized room name.
func (r *Room) Name(texts gamedata.TextResolver) string {
	return gamedata.Text(texts, gamedata.NamespaceRooms, r.ID)
}

// Intro returns the localized message shown when entering the room.
func (r *Room) Intro(texts gamedata.TextResolver) string {
	return gamedata.Text(texts, gamedata.NamespaceRooms, r.ID+".intro")
}

// EntityIndex returns the position of e in the room, or -1.
func (r *Room) EntityIndex(e *entity.Entity) int {
	for i, candidate := range r.Entities {
		if candidate == e {
			return i
		}
	}
	return -1
}

// Floor is an ordered list of rooms. The first room is where the player
// arrives.
type Floor struct {
	ID    string
	Rooms []*Room
}

// Name returns the localized floor name.
func (f *Floor) Name(texts gamedata.TextResolver) string {
	return gamedata.Text(texts, gamedata.NamespaceRooms, "floor."+f.ID)
}

// FindEntity returns the entity with the given id on this floor, or nil.
func (f *Floor) FindEntity(id string) *entity.Entity {
	for _, room := range f.Rooms {
		for _, e := range room.Entities {
			if e.ID() == id {
				return e
			}
		}
	}
	return nil
}

// Entities returns every entity on the floor in room order.
func (f *Floor) Entities() []*entity.Entity {
	var out []*entity.Entity
	for _, room := range f.Rooms {
		out = append(out, room.Entities...)
	}
	return out
}

// Building is the whole game world, floors in play order.
type Building struct {
	Floors []*Floor
}

// Floor returns the floor at index, or false when out of range.
func (b *Building) Floor(index int) (*Floor, bool) {
	if index < 0 || index >= len(b.Floors) {
		return nil, false
	}
	return b.Floors[index], true
}

// Room returns the room at the given floor and room index.
func (b *Building) Room(floor, room int) (*Room, bool) {
	f, ok := b.Floor(floor)
	if !ok || room < 0 || room >= len(f.Rooms) {
		return nil, false
	}
	return f.Rooms[room], true
}

// ResetStates returns every entity to its initial state.
func (b *Building) ResetStates() {
	for _, f := range b.Floors {
		for _, e := range f.Entities() {
			e.Reset()
		}
	}
}

// EntityStates returns the current state of every entity, keyed by entity id.
func (b *Building) EntityStates() map[string]string {
	out := map[string]string{}
	for _, f := range b.Floors {
		for _, e := range f.Entities() {
			out[e.ID()] = e.State().ID()
		}
	}
	return out
}

// RestoreStates applies saved entity states. Unknown entities or states are
// reported; the remaining entries are still applied.
func (b *Building) RestoreStates(states map[string]string) error {
	var firstErr error
	for _, f := range b.Floors {
		for _, e := range f.Entities() {
			name, ok := states[e.ID()]
			if !ok {
				continue
			}
			if err := e.SwapState(name); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
