package gen

import (
	"os"
	"os/exec"
	"strings"

	"github.com/qobs-build/shadermake/internal/project"
)

// ninjaTarget is the phony target of one project configuration
type ninjaTarget struct {
	name  string
	steps []project.CustomFileBuildStep
}

type NinjaGen struct {
	targets []ninjaTarget
}

func (g *NinjaGen) BuildFile() string { return "build.ninja" }

var (
	ninjaPathEscaper  = strings.NewReplacer("$", "$$", ":", "$:", " ", "$ ", "\n", "")
	ninjaValueEscaper = strings.NewReplacer("$", "$$", "\n", " ")
)

func quote(s string) string { return ninjaPathEscaper.Replace(s) }

// AddProject adds one phony target per configuration of p, e.g. "Engine_Debug"
func (g *NinjaGen) AddProject(p *project.Project) {
	for _, conf := range p.Configurations() {
		g.targets = append(g.targets, ninjaTarget{
			name:  p.Name + "_" + string(conf.Optimization),
			steps: conf.CustomFileBuildSteps(),
		})
	}
}

func (g *NinjaGen) Generate() (string, error) {
	var sb strings.Builder

	writeln(&sb, "ninja_required_version = 1.1")
	writeln(&sb)

	// gen rules
	write(&sb,
		`rule custom
  command = $cmd
  description = $desc
`)
	writeln(&sb)

	// one edge per step
	for _, target := range g.targets {
		for _, step := range target.steps {
			writeln(&sb, "build ", quote(step.Output), ": custom ", quote(step.KeyInput))
			writeln(&sb, "  cmd = ", ninjaValueEscaper.Replace(step.CommandLine))
			writeln(&sb, "  desc = ", ninjaValueEscaper.Replace(step.Description))
		}
	}
	writeln(&sb)

	// phony
	for _, target := range g.targets {
		write(&sb, "build ", quote(target.name), ": phony")
		for _, step := range target.steps {
			write(&sb, " ", quote(step.Output))
		}
		writeln(&sb)
	}

	if len(g.targets) > 0 {
		write(&sb, "default")
		for _, target := range g.targets {
			write(&sb, " ", quote(target.name))
		}
		writeln(&sb)
	}

	return sb.String(), nil
}

func (g *NinjaGen) Invoke(buildDir string) error {
	cmd := exec.Command("ninja", "-C", buildDir)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
