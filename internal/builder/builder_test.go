package builder

import (
	"os"
	"path"
	"path/filepath"
	"testing"

	"github.com/qobs-build/shadermake/internal/project"
	"github.com/qobs-build/shadermake/internal/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
}

func newTestBuilder(t *testing.T, config string, files map[string]string) (*Builder, string) {
	t.Helper()
	dir := t.TempDir()
	files[ConfigFilename] = config
	writeTree(t, dir, files)

	b, err := NewBuilderInDirectory(dir)
	require.NoError(t, err)
	return b, dir
}

const engineConfig = `
[package]
name = "Engine"

[target]
sources = ["src/**/*.cpp", "shaders/**/*.hlsl"]
headers = ["src/**/*.h"]
defines = { RENDERER = "d3d11", HOT_RELOAD = "" }
links = ["d3d11"]

[profile.release]
opt-level = 2
defines = ["NDEBUG"]

[shaders]
compiler = "fxc"

[packages.imgui]
root = "/opt/imgui"
libs = ["imgui.lib"]
`

func TestBuilder_Resolve(t *testing.T) {
	b, dir := newTestBuilder(t, engineConfig, map[string]string{
		"src/main.cpp":               "",
		"src/render/render.h":        "",
		"shaders/sky_vx.hlsl":        "",
		"shaders/sky_px.hlsl":        "",
		"shaders/post/blur_cs.hlsl":  "",
		"shaders/common.hlsli":       "",
		"shaders/unrelated_gs.hlsl":  "",
		"obj/stale/shaders/old_vx.h": "",
		"docs/not_a_source_vx.hlsl":  "",
	})

	res, err := b.Resolve()
	require.NoError(t, err)

	p := res.Project
	assert.Equal(t, "Engine", p.Name)
	assert.True(t, p.Finalized())
	require.Len(t, p.Configurations(), 2)

	// 3 shaders x 2 configurations
	require.Len(t, res.Steps, 6)
	assert.Len(t, p.Sources.Generated(), 6)

	root := filepath.ToSlash(dir)
	debug, ok := p.Configuration(project.Debug)
	require.True(t, ok)
	assert.Equal(t, "Debug|x64", debug.Name())
	assert.True(t, debug.IsDebug())
	assert.Contains(t, debug.IncludePaths, path.Join(root, "obj", "Engine_Debug"))
	assert.Contains(t, debug.IncludePaths, path.Join(root, "src", "render"))
	assert.Equal(t, []string{"HOT_RELOAD", "RENDERER=d3d11"}, debug.Defines)
	assert.Equal(t, []string{"d3d11", "imgui.lib"}, debug.Libraries)
	assert.Equal(t, []string{"/opt/imgui/debug/lib"}, debug.LibraryPaths)

	release, ok := p.Configuration(project.Release)
	require.True(t, ok)
	assert.Equal(t, "2", release.OptLevel)
	assert.Contains(t, release.Defines, "NDEBUG")
	assert.Equal(t, []string{"/opt/imgui/lib"}, release.LibraryPaths)

	sky := filepath.Join(dir, "shaders", "sky_vx.hlsl")
	step, ok := release.BuildStep(sky)
	require.True(t, ok)
	assert.Equal(t, path.Join(root, "obj", "Engine_Release", "shaders", "sky_vx.h"), step.Output)
	assert.Contains(t, step.CommandLine, `/Vn"cso_sky_vx"`)
	assert.Contains(t, step.CommandLine, "/T vs_5_0")

	blur := filepath.Join(dir, "shaders", "post", "blur_cs.hlsl")
	_, ok = debug.BuildStep(blur)
	assert.True(t, ok)
	_, ok = debug.BuildStep(filepath.Join(dir, "shaders", "unrelated_gs.hlsl"))
	assert.False(t, ok)
}

func TestBuilder_ResolveShadersSection(t *testing.T) {
	b, _ := newTestBuilder(t, `
[package]
name = "Engine"

[target]
sources = ["shaders/*.hlsl"]

[shaders]
compiler = '"C:/Program Files (x86)/Windows Kits/10/bin/x64/fxc.exe" /Ges'
entry = "entry"
intermediate = "gen"
stages = ["pixel"]
strip-stage-suffix = true
`, map[string]string{
		"shaders/sky_vx.hlsl": "",
		"shaders/sky_px.hlsl": "",
	})

	res, err := b.Resolve()
	require.NoError(t, err)
	require.Len(t, res.Steps, 2)

	for _, step := range res.Steps {
		assert.Equal(t, shader.PixelShader, step.Profile)
		assert.Equal(t, "sky", step.ResourceName)
		assert.Equal(t, "cso_sky", step.Symbol)
		assert.Equal(t, "entry", step.EntryPoint)
		assert.Equal(t, "C:/Program Files (x86)/Windows Kits/10/bin/x64/fxc.exe", step.Executable)
		assert.Equal(t, "/Ges", step.Args[0])
		assert.Contains(t, step.Output, "/gen/Engine_")
		assert.Contains(t, step.CommandLine, `"C:/Program Files (x86)/Windows Kits/10/bin/x64/fxc.exe" /Ges /Zi`)
	}
}

func TestBuilder_ResolveErrors(t *testing.T) {
	b, _ := newTestBuilder(t, `
[package]
name = "Engine"

[shaders]
stages = ["geometry"]
`, map[string]string{})
	_, err := b.Resolve()
	assert.ErrorContains(t, err, "stages")

	b, _ = newTestBuilder(t, `
[package]
name = "Engine"

[shaders]
compiler = "'fxc"
`, map[string]string{})
	_, err = b.Resolve()
	assert.ErrorContains(t, err, "compiler")

	b, _ = newTestBuilder(t, `
[package]
name = "Engine"

[packages.box2d]
libs = ["box2d.lib"]
`, map[string]string{})
	b.env.Environ = map[string]string{}
	_, err = b.Resolve()
	assert.ErrorContains(t, err, "VCPKGDIR")

	_, err = NewBuilderInDirectory(t.TempDir())
	assert.Error(t, err)

	_, err = createGenerator("make")
	assert.Error(t, err)
}

func TestFindShaderCompiler(t *testing.T) {
	assert.Equal(t, "/sdk/fxc", findShaderCompiler(map[string]string{FxcEnv: "/sdk/fxc"}))
	assert.NotEmpty(t, findShaderCompiler(map[string]string{}))
	assert.Empty(t, findWindowsKitsFxc(map[string]string{}))
}

func TestCollectFiles(t *testing.T) {
	b, dir := newTestBuilder(t, engineConfig, map[string]string{
		"src/a.cpp":      "",
		"src/sub/b.cpp":  "",
		"src/sub/b.h":    "",
		"include/api.h":  "",
		"include/x/y.h":  "",
		"shaders/a.hlsl": "",
	})

	files, err := b.collectFiles([]string{"src/**/*.cpp"}, false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "src", "a.cpp"),
		filepath.Join(dir, "src", "sub", "b.cpp"),
	}, files)

	dirs, err := b.collectFiles([]string{"include/**/*.h", "src/**/*.h"}, true)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "include"),
		filepath.Join(dir, "include", "x"),
		filepath.Join(dir, "src", "sub"),
	}, dirs)
}
