// Package packages resolves prebuilt third-party package locations (vcpkg
// style installs) into include paths, library paths and libraries.
//
// A Set is built once before any project is configured and is read-only
// afterwards.
package packages

import (
	"fmt"
	"path"
	"path/filepath"
	"slices"

	"github.com/qobs-build/shadermake/internal/project"
)

// RootEnv is the environment variable package roots default to
const RootEnv = "VCPKGDIR"

const staticSuffix = "-static"

// Section defines a [packages.<name>] section
type Section struct {
	Root        string   `toml:"root"`
	Static      bool     `toml:"static"`
	HeaderOnly  bool     `toml:"header-only"`
	IncludeDirs []string `toml:"include-dirs"`
	Libs        []string `toml:"libs"`
	DebugLibs   []string `toml:"debug-libs"`
	ReleaseLibs []string `toml:"release-libs"`
}

// Package is a resolved package
type Package struct {
	Name        string
	Root        string
	HeaderOnly  bool
	IncludeDirs []string
	Libs        []string
	DebugLibs   []string
	ReleaseLibs []string
}

type Set struct {
	packages []Package
}

// Resolve builds a Set from the configured sections. Package roots default to
// $VCPKGDIR (with "-static" appended for static packages).
func Resolve(sections map[string]Section, environ map[string]string) (*Set, error) {
	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	slices.Sort(names)

	set := &Set{packages: make([]Package, 0, len(names))}
	for _, name := range names {
		sec := sections[name]
		root := sec.Root
		if root == "" {
			root = environ[RootEnv]
			if root == "" {
				return nil, fmt.Errorf("package %q has no root and %s is not set", name, RootEnv)
			}
			if sec.Static {
				root += staticSuffix
			}
		}

		includeDirs := sec.IncludeDirs
		if len(includeDirs) == 0 {
			includeDirs = []string{"include"}
		}

		set.packages = append(set.packages, Package{
			Name:        name,
			Root:        filepath.ToSlash(filepath.Clean(root)),
			HeaderOnly:  sec.HeaderOnly,
			IncludeDirs: slices.Clone(includeDirs),
			Libs:        slices.Clone(sec.Libs),
			DebugLibs:   slices.Clone(sec.DebugLibs),
			ReleaseLibs: slices.Clone(sec.ReleaseLibs),
		})
	}
	return set, nil
}

func (s *Set) Packages() []Package {
	if s == nil {
		return nil
	}
	return slices.Clone(s.packages)
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.packages)
}

// Apply adds the include paths, library paths and libraries of every package to conf
func (s *Set) Apply(conf *project.Configuration) {
	if s == nil {
		return
	}
	debug := conf.Optimization == project.Debug
	for _, pkg := range s.packages {
		for _, dir := range pkg.IncludeDirs {
			conf.AddIncludePath(pkg.join(dir))
		}
		if pkg.HeaderOnly {
			continue
		}

		if debug {
			conf.AddLibraryPath(pkg.join("debug/lib"))
		} else {
			conf.AddLibraryPath(pkg.join("lib"))
		}

		for _, lib := range pkg.Libs {
			conf.AddLibrary(lib)
		}
		perOpt := pkg.ReleaseLibs
		if debug {
			perOpt = pkg.DebugLibs
		}
		for _, lib := range perOpt {
			conf.AddLibrary(lib)
		}
	}
}

func (pkg Package) join(dir string) string {
	if path.IsAbs(dir) || filepath.IsAbs(dir) {
		return filepath.ToSlash(dir)
	}
	return path.Join(pkg.Root, dir)
}
