// Package project holds the build-configuration model that shader
// resolution and the generators operate on.
package project

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrAlreadyPopulated = errors.New("project sources were already populated")
	ErrFinalized        = errors.New("project is finalized")
	ErrNotPopulated     = errors.New("project sources are not populated yet")
)

// Optimization is the optimization level of a configuration, e.g. "Debug" or "Release"
type Optimization string

const (
	Debug   Optimization = "Debug"
	Release Optimization = "Release"
)

// DefaultPlatform is the only platform configurations are generated for
const DefaultPlatform = "x64"

type state uint8

const (
	stateConfiguring state = iota
	statePopulated
	stateFinalized
)

// Project is a single compilable unit: a name, a root directory, its source
// files and one Configuration per optimization level.
type Project struct {
	Name     string
	RootPath string
	Lib      bool // static library instead of an application
	Sources  SourceFileSet

	configurations []*Configuration
	state          state
}

func New(name, rootPath string) *Project {
	return &Project{Name: name, RootPath: rootPath}
}

// AddConfiguration creates a configuration for the given optimization level.
// Optimization levels are unique within a project.
func (p *Project) AddConfiguration(opt Optimization, platform string) (*Configuration, error) {
	if p.state == stateFinalized {
		return nil, fmt.Errorf("add configuration %s to %q: %w", opt, p.Name, ErrFinalized)
	}
	if opt == "" {
		return nil, fmt.Errorf("project %q: configuration has no optimization level", p.Name)
	}
	if platform == "" {
		platform = DefaultPlatform
	}
	for _, conf := range p.configurations {
		if conf.Optimization == opt {
			return nil, fmt.Errorf("project %q already has a %s configuration", p.Name, opt)
		}
	}
	conf := &Configuration{
		Optimization: opt,
		Platform:     platform,
		project:      p,
	}
	p.configurations = append(p.configurations, conf)
	return conf, nil
}

// Configurations returns the configurations in the order they were added
func (p *Project) Configurations() []*Configuration {
	return slices.Clone(p.configurations)
}

// Configuration looks up a configuration by optimization level
func (p *Project) Configuration(opt Optimization) (*Configuration, bool) {
	for _, conf := range p.configurations {
		if conf.Optimization == opt {
			return conf, true
		}
	}
	return nil, false
}

// PopulateSources records the discovered source files. It may only be called once.
func (p *Project) PopulateSources(files []string) error {
	switch p.state {
	case statePopulated:
		return fmt.Errorf("project %q: %w", p.Name, ErrAlreadyPopulated)
	case stateFinalized:
		return fmt.Errorf("project %q: %w", p.Name, ErrFinalized)
	}
	p.Sources.populate(files)
	p.state = statePopulated
	return nil
}

func (p *Project) Populated() bool { return p.state >= statePopulated }
func (p *Project) Finalized() bool { return p.state == stateFinalized }

// Finalize seals the project. Build steps can no longer be registered afterwards.
func (p *Project) Finalize() error {
	switch p.state {
	case stateConfiguring:
		return fmt.Errorf("finalize %q: %w", p.Name, ErrNotPopulated)
	case stateFinalized:
		return fmt.Errorf("finalize %q: %w", p.Name, ErrFinalized)
	}
	p.state = stateFinalized
	return nil
}

// BuildSteps returns the custom build steps of all configurations
func (p *Project) BuildSteps() []CustomFileBuildStep {
	var steps []CustomFileBuildStep
	for _, conf := range p.configurations {
		steps = append(steps, conf.customFileBuildSteps...)
	}
	return steps
}
