package project

import (
	"fmt"
	"slices"
)

// Configuration is one (optimization level x platform) pair a project is compiled for
type Configuration struct {
	Optimization     Optimization
	Platform         string
	IntermediatePath string
	OutputPath       string
	OptLevel         string // compiler optimization level, "" means no -O

	IncludePaths []string
	LibraryPaths []string
	Libraries    []string
	Defines      []string
	Cflags       []string

	customFileBuildSteps []CustomFileBuildStep
	project              *Project
}

// Name is the configuration name as build tools see it, e.g. "Debug|x64"
func (c *Configuration) Name() string {
	return string(c.Optimization) + "|" + c.Platform
}

func (c *Configuration) Project() *Project { return c.project }

// IsDebug reports whether the configuration builds without optimizations
func (c *Configuration) IsDebug() bool {
	return c.OptLevel == "" || c.OptLevel == "0"
}

func appendUnique(list []string, v string) ([]string, bool) {
	if v == "" || slices.Contains(list, v) {
		return list, false
	}
	return append(list, v), true
}

func (c *Configuration) AddIncludePath(path string) bool {
	var added bool
	c.IncludePaths, added = appendUnique(c.IncludePaths, path)
	return added
}

func (c *Configuration) AddLibraryPath(path string) bool {
	var added bool
	c.LibraryPaths, added = appendUnique(c.LibraryPaths, path)
	return added
}

func (c *Configuration) AddLibrary(lib string) bool {
	var added bool
	c.Libraries, added = appendUnique(c.Libraries, lib)
	return added
}

func (c *Configuration) AddDefine(define string) bool {
	var added bool
	c.Defines, added = appendUnique(c.Defines, define)
	return added
}

// AddCustomFileBuildStep registers a step keyed by its input file. It returns
// false if the configuration already has a step for that input.
func (c *Configuration) AddCustomFileBuildStep(step CustomFileBuildStep) (bool, error) {
	if c.project != nil && c.project.Finalized() {
		return false, fmt.Errorf("register build step for %s: %w", step.KeyInput, ErrFinalized)
	}
	if step.KeyInput == "" || step.Output == "" {
		return false, fmt.Errorf("build step needs both an input and an output (input %q, output %q)", step.KeyInput, step.Output)
	}
	if _, ok := c.BuildStep(step.KeyInput); ok {
		return false, nil
	}
	step.Configuration = c.Name()
	c.customFileBuildSteps = append(c.customFileBuildSteps, step)
	return true, nil
}

// BuildStep returns the step registered for input, if any
func (c *Configuration) BuildStep(input string) (CustomFileBuildStep, bool) {
	for _, step := range c.customFileBuildSteps {
		if step.KeyInput == input {
			return step, true
		}
	}
	return CustomFileBuildStep{}, false
}

func (c *Configuration) CustomFileBuildSteps() []CustomFileBuildStep {
	return slices.Clone(c.customFileBuildSteps)
}

// CustomFileBuildStep is a single-input/single-output rule, re-run when its input changes
type CustomFileBuildStep struct {
	KeyInput      string
	Output        string
	Executable    string
	Args          []string
	CommandLine   string
	Description   string
	Configuration string
}
