// Package shader turns HLSL sources of a project into per-configuration
// compile steps that produce C headers holding the compiled bytecode.
//
// Shader sources are recognized by suffix (see Profile). For a project
// "Engine" rooted at /src, the Debug build of shaders/blur_cs.hlsl compiles to
//
//	/src/obj/Engine_Debug/shaders/blur_cs.h
//
// which defines the byte array cso_blur_cs. ConfigureShaderIncludes puts
// /src/obj/Engine_Debug on the include path, so sources include it as
// "shaders/blur_cs.h". With Options.StripStageSuffix the stage suffix is
// dropped as well, giving blur.h and cso_blur.
package shader

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/qobs-build/shadermake/internal/project"
)

const (
	DefaultCompiler     = "fxc"
	DefaultEntryPoint   = "main"
	DefaultIntermediate = "obj"

	symbolPrefix = "cso_"
	shadersDir   = "shaders"
)

var (
	ErrSourcesNotPopulated = project.ErrNotPopulated
	ErrProjectFinalized    = project.ErrFinalized
	ErrNoConfigurations    = errors.New("project has no configurations")
	ErrOutputCollision     = errors.New("shaders compile to the same header")
)

// Options configures a Resolver. Zero values select the defaults.
type Options struct {
	Compiler     string
	CompilerArgs []string // inserted before the compiler flags
	EntryPoint   string
	Intermediate string
	Stages       []Profile // nil means all profiles
	// StripStageSuffix names outputs after the file name without its stage
	// suffix (foo_vx.hlsl -> foo.h) instead of without its extension (foo_vx.h).
	StripStageSuffix bool
}

// Resolver claims shader files of projects and registers their compile steps
type Resolver struct {
	opts Options
}

// NewResolver returns a Resolver with the zero fields of opts set to their defaults
func NewResolver(opts Options) *Resolver {
	if opts.Compiler == "" {
		opts.Compiler = DefaultCompiler
	}
	if opts.EntryPoint == "" {
		opts.EntryPoint = DefaultEntryPoint
	}
	if opts.Intermediate == "" {
		opts.Intermediate = DefaultIntermediate
	}
	if opts.Stages == nil {
		opts.Stages = AllProfiles()
	}
	return &Resolver{opts: opts}
}

// Stages are the profiles ClaimAllShaderFiles claims, in order
func (r *Resolver) Stages() []Profile { return r.opts.Stages }

// CompileStep is one shader file compiled for one configuration
type CompileStep struct {
	Profile       Profile
	Configuration string
	Input         string
	Output        string
	ResourceName  string
	Symbol        string
	EntryPoint    string
	Executable    string
	Args          []string
	CommandLine   string
}

// BuildStep converts the step into the rule registered on a configuration
func (s CompileStep) BuildStep() project.CustomFileBuildStep {
	return project.CustomFileBuildStep{
		KeyInput:      s.Input,
		Output:        s.Output,
		Executable:    s.Executable,
		Args:          s.Args,
		CommandLine:   s.CommandLine,
		Description:   fmt.Sprintf("Compiling %s shader %s", s.Profile, filepath.Base(s.Input)),
		Configuration: s.Configuration,
	}
}

// IncludeDir is the directory generated shader headers are included relative to
func (r *Resolver) IncludeDir(p *project.Project, opt project.Optimization) string {
	return path.Join(filepath.ToSlash(p.RootPath), r.opts.Intermediate, p.Name+"_"+string(opt))
}

// OutputDir is the directory generated shader headers are written to
func (r *Resolver) OutputDir(p *project.Project, opt project.Optimization) string {
	return path.Join(r.IncludeDir(p, opt), shadersDir)
}

// ConfigureShaderIncludes adds the generated header root of conf to its include paths
func (r *Resolver) ConfigureShaderIncludes(conf *project.Configuration) error {
	p := conf.Project()
	if p == nil {
		return errors.New("configuration does not belong to a project")
	}
	if p.Finalized() {
		return fmt.Errorf("configure shader includes for %s: %w", conf.Name(), ErrProjectFinalized)
	}
	conf.AddIncludePath(r.IncludeDir(p, conf.Optimization))
	return nil
}

// ClaimAllShaderFiles claims the shader files of every enabled profile
func (r *Resolver) ClaimAllShaderFiles(p *project.Project) ([]CompileStep, error) {
	var all []CompileStep
	for _, profile := range r.opts.Stages {
		steps, err := r.ClaimShaderFiles(p, profile, profile.Suffix(), r.opts.EntryPoint)
		if err != nil {
			return all, err
		}
		all = append(all, steps...)
	}
	return all, nil
}

// ClaimShaderFiles registers a compile step on every configuration of p for
// every discovered file ending in suffix (case-insensitive), and records the
// generated headers as project outputs. It returns the steps registered by this call.
func (r *Resolver) ClaimShaderFiles(p *project.Project, profile Profile, suffix, entryPoint string) ([]CompileStep, error) {
	if err := checkClaimable(p); err != nil {
		return nil, err
	}
	if !profile.valid() {
		return nil, fmt.Errorf("claim shader files: unknown profile %v", profile)
	}
	if suffix == "" {
		return nil, fmt.Errorf("claim %s shader files: empty suffix", profile)
	}
	if entryPoint == "" {
		return nil, fmt.Errorf("claim %s shader files: empty entry point", profile)
	}

	matched := p.Sources.Match(suffix)
	if len(matched) == 0 {
		return nil, nil
	}

	configurations := p.Configurations()
	if len(configurations) == 0 {
		return nil, fmt.Errorf("claim %s shader files of %q: %w", profile, p.Name, ErrNoConfigurations)
	}

	// plan everything before registering anything, so a collision leaves the project untouched
	var planned []CompileStep
	for _, conf := range configurations {
		outputs := make(map[string]string) // output -> input
		for _, step := range conf.CustomFileBuildSteps() {
			outputs[step.Output] = step.KeyInput
		}
		for _, file := range matched {
			step := r.newStep(p, conf, profile, suffix, entryPoint, file)
			if _, ok := conf.BuildStep(step.Input); ok {
				continue // claimed by an earlier pass
			}
			other, ok := outputs[step.Output]
			if ok && other == step.Input {
				continue // same file listed under another spelling
			}
			if ok {
				return nil, fmt.Errorf("%w: %s and %s both produce %s in %s", ErrOutputCollision, other, step.Input, step.Output, conf.Name())
			}
			outputs[step.Output] = step.Input
			planned = append(planned, step)
		}
	}

	byName := make(map[string]*project.Configuration, len(configurations))
	for _, conf := range configurations {
		byName[conf.Name()] = conf
	}
	for _, step := range planned {
		if _, err := byName[step.Configuration].AddCustomFileBuildStep(step.BuildStep()); err != nil {
			return nil, err
		}
		p.Sources.AddGenerated(step.Output)
	}

	return planned, nil
}

func checkClaimable(p *project.Project) error {
	if p == nil {
		return errors.New("claim shader files: nil project")
	}
	if p.Finalized() {
		return fmt.Errorf("claim shader files of %q: %w", p.Name, ErrProjectFinalized)
	}
	if !p.Populated() {
		return fmt.Errorf("claim shader files of %q: %w", p.Name, ErrSourcesNotPopulated)
	}
	return nil
}

func (r *Resolver) newStep(p *project.Project, conf *project.Configuration, profile Profile, suffix, entryPoint, file string) CompileStep {
	input := file
	if !filepath.IsAbs(input) {
		input = filepath.Join(p.RootPath, input)
	}
	input = filepath.Clean(input)

	resourceName := r.resourceName(filepath.Base(input), suffix)
	output := path.Join(r.OutputDir(p, conf.Optimization), resourceName+".h")
	symbol := symbolPrefix + resourceName

	args := append([]string(nil), r.opts.CompilerArgs...)
	args = append(args,
		"/Zi", "/nologo", "/O2",
		"/E"+entryPoint,
		"/T", profile.Target(),
		"/Fh"+output,
		"/Vn"+symbol,
		input,
	)

	commandLine := fmt.Sprintf(`%s /Zi /nologo /O2 /E"%s" /T %s /Fh"%s" /Vn"%s" "%s"`,
		r.compilerCommand(), entryPoint, profile.Target(), output, symbol, input)

	return CompileStep{
		Profile:       profile,
		Configuration: conf.Name(),
		Input:         input,
		Output:        output,
		ResourceName:  resourceName,
		Symbol:        symbol,
		EntryPoint:    entryPoint,
		Executable:    r.opts.Compiler,
		Args:          args,
		CommandLine:   commandLine,
	}
}

func (r *Resolver) resourceName(base, suffix string) string {
	if r.opts.StripStageSuffix && len(base) > len(suffix) && strings.EqualFold(base[len(base)-len(suffix):], suffix) {
		return base[:len(base)-len(suffix)]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (r *Resolver) compilerCommand() string {
	parts := make([]string, 0, 1+len(r.opts.CompilerArgs))
	for _, s := range append([]string{r.opts.Compiler}, r.opts.CompilerArgs...) {
		if strings.ContainsAny(s, " \t") {
			s = `"` + s + `"`
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}
