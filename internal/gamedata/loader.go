package gamedata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
)

// Load decodes an embedded JSON content file into T. A file that is not
// embedded is reported as a *ContentReferenceError.
func Load[T any](name string) (T, error) {
	var v T

	raw, err := dataFS.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return v, fmt.Errorf("load content: %w", NewContentReferenceError(RefFile, name))
	}
	if err != nil {
		return v, fmt.Errorf("load content %s: %w", name, err)
	}

	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode content %s: %w", name, err)
	}
	return v, nil
}

// MustLoad is Load for content the game cannot start without.
func MustLoad[T any](name string) T {
	v, err := Load[T](name)
	if err != nil {
		panic(err)
	}
	return v
}
