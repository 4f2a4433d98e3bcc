package builder

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mattn/go-shellwords"
	"github.com/qobs-build/shadermake/internal/builder/gen"
	"github.com/qobs-build/shadermake/internal/packages"
	"github.com/qobs-build/shadermake/internal/project"
	"github.com/qobs-build/shadermake/internal/shader"
)

const (
	GeneratorNative = "native"
	GeneratorNinja  = "ninja"
	GeneratorVS2022 = "vs2022"
)

var errEmptyCompiler = errors.New("[shaders] compiler is empty")

type Builder struct {
	cfg     *Config
	basedir string
	env     ConfigEnv
}

func NewBuilderInDirectory(path string) (*Builder, error) {
	var err error
	path, err = filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	env := NewConfigEnv(path)
	cfg, err := ParseConfigFromFile(filepath.Join(path, ConfigFilename), env)
	if err != nil {
		return nil, err
	}
	return &Builder{cfg: cfg, basedir: path, env: env}, nil
}

func (b *Builder) Config() *Config { return b.cfg }
func (b *Builder) BuildDir() string { return filepath.Join(b.basedir, "build") }

// Resolution is a resolved, finalized project together with its shader steps
type Resolution struct {
	Project  *project.Project
	Steps    []shader.CompileStep
	Packages *packages.Set
}

// Resolve turns the package configuration into a finalized project: one
// configuration per profile, the discovered sources, and a compile step per
// shader per configuration.
func (b *Builder) Resolve() (*Resolution, error) {
	pkgs, err := packages.Resolve(b.cfg.Packages, b.env.Environ)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve packages: %w", err)
	}

	resolver, err := newResolver(b.cfg.Shaders, b.env.Environ)
	if err != nil {
		return nil, err
	}

	p := project.New(b.cfg.Package.Name, b.basedir)
	p.Lib = b.cfg.Target.Lib

	includeDirs, err := b.collectFiles(b.cfg.Target.Headers, true)
	if err != nil {
		return nil, fmt.Errorf("failed to collect headers for %s: %w", p.Name, err)
	}

	for _, profile := range b.cfg.Profiles() {
		if err := b.addConfiguration(p, profile, includeDirs, pkgs); err != nil {
			return nil, err
		}
	}

	sources, err := b.collectFiles(b.cfg.Target.Sources, false)
	if err != nil {
		return nil, fmt.Errorf("failed to collect sources for %s: %w", p.Name, err)
	}
	if err := p.PopulateSources(sources); err != nil {
		return nil, err
	}

	for _, conf := range p.Configurations() {
		if err := resolver.ConfigureShaderIncludes(conf); err != nil {
			return nil, err
		}
	}

	steps, err := resolver.ClaimAllShaderFiles(p)
	if err != nil {
		return nil, err
	}

	if err := b.cfg.RunBuildScript(b.env); err != nil {
		return nil, err
	}

	if err := p.Finalize(); err != nil {
		return nil, err
	}

	return &Resolution{Project: p, Steps: steps, Packages: pkgs}, nil
}

func (b *Builder) addConfiguration(p *project.Project, profile string, includeDirs []string, pkgs *packages.Set) error {
	prof := b.cfg.Profile[profile]
	opt := optimization(profile)

	conf, err := p.AddConfiguration(opt, project.DefaultPlatform)
	if err != nil {
		return err
	}
	conf.OptLevel = prof.OptLevel.String()
	conf.IntermediatePath = filepath.Join(b.basedir, "build", p.Name, "int", string(opt))
	conf.OutputPath = filepath.Join(b.basedir, "build", string(opt))

	for _, dir := range includeDirs {
		conf.AddIncludePath(filepath.ToSlash(dir))
	}

	defines := slices.Sorted(maps.Keys(b.cfg.Target.Defines))
	for _, define := range defines {
		if v := b.cfg.Target.Defines[define]; v != "" {
			conf.AddDefine(define + "=" + v)
		} else {
			conf.AddDefine(define)
		}
	}
	for _, define := range prof.Defines {
		conf.AddDefine(define)
	}

	conf.Cflags = append(conf.Cflags, b.cfg.Target.Cflags...)
	conf.Cflags = append(conf.Cflags, prof.Cflags...)

	for _, lib := range b.cfg.Target.Links {
		conf.AddLibrary(lib)
	}

	pkgs.Apply(conf)
	return nil
}

// newResolver builds a shader resolver from the [shaders] section
func newResolver(sec ShadersSection, environ map[string]string) (*shader.Resolver, error) {
	opts := shader.Options{
		EntryPoint:       sec.Entry,
		Intermediate:     sec.Intermediate,
		StripStageSuffix: sec.StripStageSuffix,
	}

	if sec.Compiler != "" {
		words, err := shellwords.Parse(sec.Compiler)
		if err != nil {
			return nil, fmt.Errorf("failed to parse [shaders] compiler %q: %w", sec.Compiler, err)
		}
		if len(words) == 0 {
			return nil, errEmptyCompiler
		}
		opts.Compiler, opts.CompilerArgs = words[0], words[1:]
	} else {
		opts.Compiler = findShaderCompiler(environ)
	}

	if sec.Stages != nil {
		stages, err := shader.ParseProfiles(sec.Stages)
		if err != nil {
			return nil, fmt.Errorf("invalid [shaders] stages: %w", err)
		}
		opts.Stages = stages
	}

	return shader.NewResolver(opts), nil
}

func (b *Builder) collectFiles(patterns []string, stripFilename bool) ([]string, error) {
	var files []string
	var stripmap map[string]struct{}
	if stripFilename {
		stripmap = map[string]struct{}{}
	}
	fsys := os.DirFS(b.basedir)

	var globparams []doublestar.GlobOption
	if !stripFilename {
		globparams = append(globparams, doublestar.WithFilesOnly())
	}

	for _, pat := range patterns {
		if filepath.IsAbs(pat) {
			files = append(files, filepath.Clean(pat))
			continue
		}
		matches, err := doublestar.Glob(fsys, filepath.ToSlash(pat), globparams...)
		if err != nil {
			return nil, err
		}
		for _, match := range matches {
			absPath := filepath.Join(b.basedir, filepath.FromSlash(match))
			if stripFilename {
				if stat, err := os.Stat(absPath); err == nil && !stat.IsDir() {
					stripmap[filepath.Dir(absPath)] = struct{}{} // this is a file, we need directories
				} else {
					stripmap[absPath] = struct{}{}
				}
			} else {
				files = append(files, absPath)
			}
		}
	}

	if stripFilename {
		for dir := range stripmap {
			files = append(files, dir)
		}
		slices.Sort(files)
	}

	return files, nil
}

func createGenerator(generator string) (gen.Generator, error) {
	switch generator {
	case GeneratorNative, "":
		return gen.NewNativeRunner(), nil
	case GeneratorNinja:
		return &gen.NinjaGen{}, nil
	case GeneratorVS2022:
		return gen.NewVS2022Gen(), nil
	default:
		return nil, fmt.Errorf("unknown generator %q", generator)
	}
}

// Build resolves the project and then invokes the generator (or runner)
func (b *Builder) Build(generator string) error {
	g, err := createGenerator(generator)
	if err != nil {
		return err
	}

	res, err := b.Resolve()
	if err != nil {
		return err
	}

	buildDir := b.BuildDir()
	if err := os.MkdirAll(buildDir, 0755); err != nil {
		return err
	}

	g.AddProject(res.Project)

	out, err := g.Generate()
	if err != nil {
		return err
	}
	if out != "" {
		buildFile := filepath.Join(buildDir, g.BuildFile())
		if err = os.WriteFile(buildFile, []byte(out), 0644); err != nil {
			return err
		}
	}

	return g.Invoke(buildDir)
}
