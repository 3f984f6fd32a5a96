package heatshrink

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Profile names a (WindowBits, LookaheadBits, UseIndex) triple tuned for a
// particular memory/ratio tradeoff, turned into something a caller can
// pick by name instead of setting bits by hand.
type Profile struct {
	Name          string `yaml:"name"`
	WindowBits    uint8  `yaml:"window_bits"`
	LookaheadBits uint8  `yaml:"lookahead_bits"`
	UseIndex      bool   `yaml:"use_index"`
}

// Config materializes a Profile into a Config, leaving InputBufferSize and
// Logger at their zero values for the caller to set afterward.
func (p Profile) Config() Config {
	return Config{
		WindowBits:    p.WindowBits,
		LookaheadBits: p.LookaheadBits,
		UseIndex:      p.UseIndex,
	}
}

// Built-in profiles spanning a range of memory/ratio tradeoffs: a tiny
// footprint for the most memory-constrained targets, a balanced default,
// and a ratio-favoring profile for when RAM is comparatively plentiful.
var (
	ProfileTiny = Profile{
		Name:          "tiny",
		WindowBits:    8,
		LookaheadBits: 4,
		UseIndex:      false,
	}
	ProfileBalanced = Profile{
		Name:          "balanced",
		WindowBits:    11,
		LookaheadBits: 4,
		UseIndex:      true,
	}
	ProfileRatio = Profile{
		Name:          "ratio",
		WindowBits:    14,
		LookaheadBits: 6,
		UseIndex:      true,
	}
)

// builtinProfiles indexes the package's presets by name for LoadProfile.
var builtinProfiles = map[string]Profile{
	ProfileTiny.Name:     ProfileTiny,
	ProfileBalanced.Name: ProfileBalanced,
	ProfileRatio.Name:    ProfileRatio,
}

// LoadProfile resolves a profile by name, first checking the extras loaded
// from ReadProfiles and then the package's built-ins, so an extra that
// reuses a built-in's name takes precedence.
func LoadProfile(name string, extras []Profile) (Profile, error) {
	for _, p := range extras {
		if p.Name == name {
			return p, nil
		}
	}
	if p, ok := builtinProfiles[name]; ok {
		return p, nil
	}
	return Profile{}, fmt.Errorf("profile %q not found: %w", name, ErrInvalid)
}

// ReadProfiles parses a YAML document of the form:
//
//	profiles:
//	  - name: embedded-8k
//	    window_bits: 10
//	    lookahead_bits: 5
//	    use_index: true
//
// into a slice of Profile, validating each entry's window/lookahead bits
// as it goes.
func ReadProfiles(r io.Reader) ([]Profile, error) {
	var doc struct {
		Profiles []Profile `yaml:"profiles"`
	}
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode profile document: %w", err)
	}
	for _, p := range doc.Profiles {
		if err := p.Config().Validate(); err != nil {
			return nil, fmt.Errorf("profile %q: %w", p.Name, err)
		}
	}
	return doc.Profiles, nil
}
