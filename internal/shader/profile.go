package shader

import (
	"fmt"
	"strings"
)

// Profile is a shader stage together with its file naming convention and compiler target
type Profile uint8

const (
	VertexShader Profile = iota
	PixelShader
	ComputeShader
)

type profileInfo struct {
	name   string
	suffix string
	target string
}

var profiles = [...]profileInfo{
	VertexShader:  {name: "vertex", suffix: "_vx.hlsl", target: "vs_5_0"},
	PixelShader:   {name: "pixel", suffix: "_px.hlsl", target: "ps_5_0"},
	ComputeShader: {name: "compute", suffix: "_cs.hlsl", target: "cs_5_0"},
}

// AllProfiles lists every known profile in claiming order
func AllProfiles() []Profile {
	return []Profile{VertexShader, PixelShader, ComputeShader}
}

func (p Profile) valid() bool { return int(p) < len(profiles) }

func (p Profile) String() string {
	if !p.valid() {
		return fmt.Sprintf("Profile(%d)", uint8(p))
	}
	return profiles[p].name
}

// Suffix is the file name suffix shader sources of this profile end with, e.g. "_vx.hlsl"
func (p Profile) Suffix() string {
	if !p.valid() {
		return ""
	}
	return profiles[p].suffix
}

// Target is the compiler target profile, e.g. "vs_5_0"
func (p Profile) Target() string {
	if !p.valid() {
		return ""
	}
	return profiles[p].target
}

// ParseProfile accepts a stage name ("vertex"), a short name ("vs", "px") or a target ("vs_5_0")
func ParseProfile(s string) (Profile, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, info := range profiles {
		short := strings.TrimSuffix(strings.TrimPrefix(info.suffix, "_"), ".hlsl")
		if s == info.name || s == info.target || s == short || s == info.target[:2] {
			return Profile(i), nil
		}
	}
	return 0, fmt.Errorf("unknown shader stage %q, known stages: vertex, pixel, compute", s)
}

// ParseProfiles parses a list of stage names, dropping duplicates
func ParseProfiles(names []string) ([]Profile, error) {
	var out []Profile
	seen := make(map[Profile]bool)
	for _, name := range names {
		p, err := ParseProfile(name)
		if err != nil {
			return nil, err
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out, nil
}
