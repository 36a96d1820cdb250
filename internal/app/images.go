package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// ImageOverrides maps event IDs to canonical image filenames. It replaces
// whatever image reference storage holds for those events.
type ImageOverrides map[int64]string

// Apply returns the override for id, or stored if there is none.
func (o ImageOverrides) Apply(id int64, stored string) string {
	if img, ok := o[id]; ok {
		return img
	}
	return stored
}

type imageOverridesFile struct {
	Images map[string]string `toml:"images"`
}

// LoadImageOverrides reads a TOML file of the form
//
//	[images]
//	4 = "event4_diverlandia.jpg"
//
// An empty path yields no overrides.
func LoadImageOverrides(path string) (ImageOverrides, error) {
	if path == "" {
		return ImageOverrides{}, nil
	}

	var f imageOverridesFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("image overrides: %w", err)
	}

	out := make(ImageOverrides, len(f.Images))
	for k, v := range f.Images {
		id, err := strconv.ParseInt(strings.TrimSpace(k), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("image overrides: invalid event id %q", k)
		}
		out[id] = strings.TrimSpace(v)
	}
	return out, nil
}
