package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/springsim/internal/spring"
)

var ErrUnknownPreset = errors.New("unknown preset")

var Presets = map[string]spring.Config{
	"default":  spring.DefaultConfig(),
	"gentle":   {Tension: 120, Friction: 14},
	"wobbly":   {Tension: 180, Friction: 8},
	"stiff":    {Tension: 210, Friction: 20},
	"slow":     {Tension: 280, Friction: 60},
	"molasses": {Tension: 280, Friction: 120},
	"critical": {Tension: 100, Friction: 20},
}

func GetPreset(name string) (spring.Config, error) {
	c, ok := Presets[name]
	if !ok {
		return spring.Config{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return c, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
