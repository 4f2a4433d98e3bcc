package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/qobs-build/shadermake/internal/builder"
	"github.com/qobs-build/shadermake/internal/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumValue(t *testing.T) {
	e := NewEnumValue("native", map[string]string{
		"native": "Run fxc directly",
		"ninja":  "",
		"vs2022": "Visual Studio 2022",
	})
	assert.Equal(t, "native", e.String())
	assert.Equal(t, "native", e.Default())
	assert.Equal(t, []string{"native", "ninja", "vs2022"}, e.AllowedKeys())
	assert.Equal(t, "[native, ninja, vs2022]", e.HelpString())

	require.NoError(t, e.Set("ninja"))
	assert.Equal(t, "ninja", e.Value())
	assert.ErrorContains(t, e.Set("make"), "must be one of: native, ninja, vs2022")
	assert.Equal(t, "ninja", e.Value())

	items, _ := e.CompletionFunc()(nil, nil, "")
	assert.Equal(t, []string{"native\tRun fxc directly", "ninja", "vs2022\tVisual Studio 2022"}, items)

	assert.Panics(t, func() { NewEnumValue("make", map[string]string{"ninja": ""}) })
}

func TestTargetDir(t *testing.T) {
	assert.Equal(t, ".", targetDir(nil))
	assert.Equal(t, "engine", targetDir([]string{"engine"}))
}

func TestPrintSteps(t *testing.T) {
	color.NoColor = true
	root := filepath.FromSlash("/work/engine")
	steps := []shader.CompileStep{
		{Profile: shader.VertexShader, Configuration: "Debug|x64", Input: filepath.Join(root, "shaders", "sky_vx.hlsl"), Output: "/work/engine/obj/Engine_Debug/shaders/sky_vx.h", Symbol: "cso_sky_vx", CommandLine: "fxc /T vs_5_0"},
		{Profile: shader.PixelShader, Configuration: "Debug|x64", Input: filepath.Join(root, "shaders", "sky_px.hlsl"), Output: "/work/engine/obj/Engine_Debug/shaders/sky_px.h", Symbol: "cso_sky_px", CommandLine: "fxc /T ps_5_0"},
		{Profile: shader.VertexShader, Configuration: "Release|x64", Input: filepath.Join(root, "shaders", "sky_vx.hlsl"), Output: "/work/engine/obj/Engine_Release/shaders/sky_vx.h", Symbol: "cso_sky_vx", CommandLine: "fxc /T vs_5_0"},
	}

	var buf bytes.Buffer
	printSteps(&buf, root, steps, false)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Debug|x64", lines[0])
	assert.Equal(t, "  vertex   shaders/sky_vx.hlsl -> /work/engine/obj/Engine_Debug/shaders/sky_vx.h (cso_sky_vx)", lines[1])
	assert.Equal(t, "Release|x64", lines[3])

	buf.Reset()
	printSteps(&buf, root, steps[:1], true)
	assert.Contains(t, buf.String(), "           fxc /T vs_5_0\n")
}

func TestConfigTemplate(t *testing.T) {
	for _, lib := range []bool{false, true} {
		cfg, err := builder.ParseConfig(strings.NewReader(configTemplate("Triangle", lib)), builder.ConfigEnv{
			TargetOS:   "windows",
			TargetArch: "amd64",
			Environ:    map[string]string{},
		})
		require.NoError(t, err)
		assert.Equal(t, "Triangle", cfg.Package.Name)
		assert.Equal(t, lib, cfg.Target.Lib)
		assert.Equal(t, []string{"d3d11", "dxgi"}, cfg.Target.Links)
		assert.Equal(t, []string{"vertex", "pixel", "compute"}, cfg.Shaders.Stages)
	}
}
