// Package scenes holds named presets that bias the spawner's sampling
// parameters before engine construction. This engine has no up-front
// population step — every circle enters through the rate-limited
// spawner — so a "scene" here is a bundle of config overrides (gravity,
// radius range, spawn rate, aspect ratio) rather than a list of bodies to
// place.
package scenes

import (
	"fmt"

	"github.com/0x5844/circlesim/internal/config"
)

// Preset mutates an unclamped config.Config in place before it is passed to
// config.New. Presets only set fields relevant to their bias; anything left
// untouched keeps the caller's flag-derived value.
type Preset func(cfg *config.Config)

var presets = map[string]Preset{
	"default":   applyDefault,
	"rain":      applyRain,
	"container": applyContainer,
}

// Names returns the recognized scene names, for CLI usage text.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	return names
}

// Apply mutates cfg according to the named preset. Returns an error naming
// the unrecognized scene otherwise, listing the valid names.
func Apply(name string, cfg *config.Config) error {
	preset, ok := presets[name]
	if !ok {
		return fmt.Errorf("unknown scene %q (valid: %v)", name, Names())
	}
	preset(cfg)
	return nil
}

// applyDefault leaves the caller's configuration untouched: circles spawn
// under whatever gravity, aspect ratio, and radius range the CLI supplied.
func applyDefault(cfg *config.Config) {}

// applyRain biases toward small, fast-arriving circles falling under
// gravity, filling the arena from the ceiling down.
func applyRain(cfg *config.Config) {
	if cfg.Gravity <= 0 {
		cfg.Gravity = 1.5
	}
	if cfg.SpawnRate <= 0 {
		cfg.SpawnRate = 25
	}
	cfg.MaxRadius = cfg.MinRadius + (cfg.MaxRadius-cfg.MinRadius)*0.5
	if cfg.MaxRadius <= cfg.MinRadius {
		cfg.MaxRadius = cfg.MinRadius * 1.5
	}
}

// applyContainer biases toward a squarer arena and a slower spawn rate, so
// circles settle and pack under gravity instead of streaming through.
func applyContainer(cfg *config.Config) {
	if cfg.Gravity <= 0 {
		cfg.Gravity = 1.0
	}
	if cfg.InitialWindowWidth < cfg.InitialWindowHeight {
		cfg.InitialWindowWidth = cfg.InitialWindowHeight
	} else {
		cfg.InitialWindowHeight = cfg.InitialWindowWidth
	}
	if cfg.SpawnRate <= 0 || cfg.SpawnRate > 10 {
		cfg.SpawnRate = 10
	}
	if cfg.Restitution > 0.6 {
		cfg.Restitution = 0.6
	}
}
