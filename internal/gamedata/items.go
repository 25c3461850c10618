package gamedata

import (
	"fmt"
	"sort"
)

// Item identifies a collectible object. The set of items is closed: only the
// constants below are valid.
type Item string

const (
	ItemFlashlight Item = "FLASHLIGHT"
	ItemCrowbar    Item = "CROWBAR"
	ItemKey        Item = "KEY"
	ItemBattery    Item = "BATTERY"
	ItemCD         Item = "CD"
	ItemKeycard    Item = "KEYCARD"
)

var itemNames = map[Item]string{
	ItemFlashlight: "Flashlight",
	ItemCrowbar:    "Crowbar",
	ItemKey:        "Rusty Key",
	ItemBattery:    "Battery",
	ItemCD:         "Compact Disc",
	ItemKeycard:    "Keycard",
}

// Items returns every known item sorted by id.
func Items() []Item {
	out := make([]Item, 0, len(itemNames))
	for item := range itemNames {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseItem returns the item with the given id.
func ParseItem(id string) (Item, error) {
	item := Item(id)
	if !item.Valid() {
		return "", NewContentReferenceError(RefItem, id)
	}
	return item, nil
}

// Valid reports whether the item is part of the enumeration.
func (i Item) Valid() bool {
	_, ok := itemNames[i]
	return ok
}

// DisplayName returns the human-readable item name.
func (i Item) DisplayName() string {
	if name, ok := itemNames[i]; ok {
		return name
	}
	return string(i)
}

// ItemName returns the localized item name, or the built-in display name
// when the catalog has none.
func ItemName(r TextResolver, item Item) string {
	if name, err := r.Resolve(NamespaceItems, item.String()); err == nil {
		return name
	}
	return item.DisplayName()
}

// String returns the item id.
func (i Item) String() string {
	return string(i)
}

// UnmarshalText rejects ids outside the enumeration.
func (i *Item) UnmarshalText(text []byte) error {
	item, err := ParseItem(string(text))
	if err != nil {
		return fmt.Errorf("decode item: %w", err)
	}
	*i = item
	return nil
}
