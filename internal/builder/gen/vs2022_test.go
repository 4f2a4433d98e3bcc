package gen

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qobs-build/shadermake/internal/project"
	"github.com/qobs-build/shadermake/internal/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readVcxproj(t *testing.T, path string) VSProject {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var vcxproj VSProject
	require.NoError(t, xml.Unmarshal(data, &vcxproj))
	return vcxproj
}

func TestVS2022Gen_Generate(t *testing.T) {
	root := t.TempDir()
	p := newResolvedProject(t, root, []string{
		"src/main.cpp",
		"src/render.h",
		"shaders/sky_vx.hlsl",
		"shaders/sky_px.hlsl",
		"shaders/common.hlsli",
	}, shader.Options{})
	conf, _ := p.Configuration(project.Release)
	conf.AddLibraryPath("/opt/vcpkg/lib")
	conf.AddLibrary("box2d")

	g := NewVS2022Gen()
	g.AddProject(p)
	sln, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, "Engine.sln", g.BuildFile())

	projectDir := filepath.Join(root, "build", "Engine")
	vcxproj := readVcxproj(t, filepath.Join(projectDir, "Engine.vcxproj"))
	assert.FileExists(t, filepath.Join(projectDir, "Engine.vcxproj.filters"))

	var (
		configurations []VSProjectConfiguration
		clCompiles     []VSClCompile
		clIncludes     []VSClInclude
		customBuilds   []VSCustomBuild
		nones          []VSNone
	)
	for _, group := range vcxproj.ItemGroups {
		configurations = append(configurations, group.ProjectConfigurations...)
		clCompiles = append(clCompiles, group.ClCompiles...)
		clIncludes = append(clIncludes, group.ClIncludes...)
		customBuilds = append(customBuilds, group.CustomBuilds...)
		nones = append(nones, group.Nones...)
	}

	require.Len(t, configurations, 2)
	assert.Equal(t, "Debug|x64", configurations[0].Include)
	assert.Equal(t, "Release|x64", configurations[1].Include)

	require.Len(t, clCompiles, 1)
	assert.Equal(t, filepath.Join("..", "..", "src", "main.cpp"), clCompiles[0].Include)

	require.Len(t, nones, 1)
	assert.Equal(t, filepath.Join("..", "..", "shaders", "common.hlsli"), nones[0].Include)

	// one item per shader, one command per configuration
	require.Len(t, customBuilds, 2)
	sky := customBuilds[0]
	assert.Equal(t, filepath.Join("..", "..", "shaders", "sky_vx.hlsl"), sky.Include)
	require.Len(t, sky.Commands, 2)
	require.Len(t, sky.Outputs, 2)
	require.Len(t, sky.Messages, 2)
	assert.Equal(t, "'$(Configuration)|$(Platform)'=='Debug|x64'", sky.Commands[0].Condition)
	assert.Equal(t, "'$(Configuration)|$(Platform)'=='Release|x64'", sky.Commands[1].Condition)
	assert.Contains(t, sky.Commands[0].Value, "/T vs_5_0")
	assert.Contains(t, sky.Commands[0].Value, `/Vn"cso_sky_vx"`)
	assert.Contains(t, sky.Outputs[1].Value, filepath.Join("Engine_Release", "shaders", "sky_vx.h"))
	assert.Equal(t, "Compiling vertex shader sky_vx.hlsl", sky.Messages[0].Value)

	// the source header plus one generated header per step
	var generated int
	for _, inc := range clIncludes {
		if inc.Condition != "" {
			generated++
		}
	}
	assert.Len(t, clIncludes, 5)
	assert.Equal(t, 4, generated)

	require.Len(t, vcxproj.ItemDefinitionGroups, 2)
	debugDefs := vcxproj.ItemDefinitionGroups[0]
	assert.Contains(t, debugDefs.ClCompile.AdditionalIncludeDirectories, filepath.Join(root, "obj", "Engine_Debug"))
	assert.Contains(t, debugDefs.ClCompile.PreprocessorDefinitions, "_DEBUG")
	assert.Equal(t, "Disabled", debugDefs.ClCompile.Optimization)
	releaseDefs := vcxproj.ItemDefinitionGroups[1]
	assert.Contains(t, releaseDefs.ClCompile.PreprocessorDefinitions, "NDEBUG")
	assert.Contains(t, releaseDefs.Link.AdditionalDependencies, "box2d.lib")
	assert.Contains(t, releaseDefs.Link.AdditionalLibraryDirectories, filepath.FromSlash("/opt/vcpkg/lib"))

	projectGuid := guid("project", "Engine")
	assert.Contains(t, sln, "{"+projectGuid+"}.Release|x64.Build.0 = Release|x64")
	assert.Contains(t, sln, "\t\tDebug|x64 = Debug|x64\n")
	assert.Contains(t, sln, `"Engine\Engine.vcxproj"`)
}

func TestVS2022Gen_Deterministic(t *testing.T) {
	root := t.TempDir()
	files := []string{"src/main.cpp", "shaders/blur_cs.hlsl"}

	generate := func() (string, string) {
		g := NewVS2022Gen()
		g.AddProject(newResolvedProject(t, root, files, shader.Options{}))
		sln, err := g.Generate()
		require.NoError(t, err)
		data, err := os.ReadFile(filepath.Join(root, "build", "Engine", "Engine.vcxproj"))
		require.NoError(t, err)
		return sln, string(data)
	}

	sln1, proj1 := generate()
	sln2, proj2 := generate()
	assert.Equal(t, sln1, sln2)
	assert.Equal(t, proj1, proj2)
	assert.True(t, strings.HasPrefix(proj1, xml.Header))
}

func TestVS2022Gen_Lib(t *testing.T) {
	root := t.TempDir()
	p := newResolvedProject(t, root, []string{"src/lib.cpp"}, shader.Options{})
	p.Lib = true

	g := NewVS2022Gen()
	g.AddProject(p)
	_, err := g.Generate()
	require.NoError(t, err)

	vcxproj := readVcxproj(t, filepath.Join(root, "build", "Engine", "Engine.vcxproj"))
	var types []string
	for _, group := range vcxproj.PropertyGroups {
		if group.ConfigurationType != "" {
			types = append(types, group.ConfigurationType)
		}
	}
	assert.Equal(t, []string{"StaticLibrary", "StaticLibrary"}, types)
	assert.NotContains(t, vcxproj.ItemDefinitionGroups[0].Link.AdditionalDependencies, "kernel32.lib")

	_, err = NewVS2022Gen().Generate()
	assert.Error(t, err)
}

func TestJoinLibraries(t *testing.T) {
	assert.Equal(t, "box2d.lib;FreeType.LIB;%(AdditionalDependencies)", joinLibraries([]string{"box2d", "FreeType.LIB"}, false))
	assert.True(t, strings.HasPrefix(joinLibraries(nil, true), "kernel32.lib;"))
	assert.Empty(t, joinLibraryDirs(nil))
	assert.Empty(t, joinOptions(nil))
	assert.Equal(t, "/W4 /utf-8 %(AdditionalOptions)", joinOptions([]string{"/W4", "/utf-8"}))
}
