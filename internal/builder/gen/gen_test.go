package gen

import (
	"path/filepath"
	"testing"

	"github.com/qobs-build/shadermake/internal/project"
	"github.com/qobs-build/shadermake/internal/shader"
	"github.com/stretchr/testify/require"
)

// newResolvedProject builds a finalized two-configuration project rooted at root
func newResolvedProject(t *testing.T, root string, files []string, opts shader.Options) *project.Project {
	t.Helper()
	p := project.New("Engine", root)
	for _, opt := range []project.Optimization{project.Debug, project.Release} {
		conf, err := p.AddConfiguration(opt, "")
		require.NoError(t, err)
		conf.OutputPath = filepath.Join(root, "build", string(opt))
		conf.IntermediatePath = filepath.Join(root, "build", "Engine", "int", string(opt))
		if opt == project.Release {
			conf.OptLevel = "2"
		}
	}

	abs := make([]string, 0, len(files))
	for _, f := range files {
		abs = append(abs, filepath.Join(root, filepath.FromSlash(f)))
	}
	require.NoError(t, p.PopulateSources(abs))

	r := shader.NewResolver(opts)
	for _, conf := range p.Configurations() {
		require.NoError(t, r.ConfigureShaderIncludes(conf))
	}
	_, err := r.ClaimAllShaderFiles(p)
	require.NoError(t, err)
	require.NoError(t, p.Finalize())
	return p
}
