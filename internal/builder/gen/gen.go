package gen

import "github.com/qobs-build/shadermake/internal/project"

// Generator consumes the build steps of finalized projects. Generate returns
// the contents of BuildFile, or "" when the generator writes no build file.
type Generator interface {
	AddProject(p *project.Project)
	Generate() (string, error)
	BuildFile() string
	Invoke(buildDir string) error
}
