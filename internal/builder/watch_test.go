package builder

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsShaderSource(t *testing.T) {
	assert.True(t, isShaderSource("/src/shaders/sky_vx.hlsl"))
	assert.True(t, isShaderSource(`C:\engine\common.HLSLI`))
	assert.False(t, isShaderSource("/src/shaders/sky_vx.h"))
	assert.False(t, isShaderSource("/src/shaders/.hlsl.swp"))
}

func TestWatch_NothingToWatch(t *testing.T) {
	b, _ := newTestBuilder(t, `
[package]
name = "Engine"

[target]
sources = ["src/*.cpp"]
`, map[string]string{"src/main.cpp": ""})

	err := b.Watch(context.Background())
	assert.ErrorIs(t, err, errNothingToWatch)
}

// fakeCompiler writes a shell script standing in for fxc. Every call appends
// the input's base name to the returned log and creates the /Fh output.
func fakeCompiler(t *testing.T) (script, log string) {
	t.Helper()
	dir := t.TempDir()
	script = filepath.ToSlash(filepath.Join(dir, "fxc.sh"))
	log = filepath.Join(dir, "calls.log")
	require.NoError(t, os.WriteFile(script, []byte(`for a; do
  case "$a" in /Fh*) out="${a#/Fh}" ;; esac
  last="$a"
done
basename "$last" >> '`+filepath.ToSlash(log)+`'
mkdir -p "$(dirname "$out")" && : > "$out"
`), 0755))
	return script, log
}

// compiled counts the compiler calls for the shader name
func compiled(log, name string) int {
	data, _ := os.ReadFile(log)
	return strings.Count(string(data), name+"\n")
}

func TestWatch_Rebuilds(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	script, log := fakeCompiler(t)
	b, dir := newTestBuilder(t, `
[package]
name = "Engine"

[target]
sources = ["shaders/**/*.hlsl"]

[shaders]
compiler = '''sh "`+script+`"'''
`, map[string]string{"shaders/sky_vx.hlsl": "v1"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- b.Watch(ctx) }()

	// initial build, Debug and Release
	require.Eventually(t, func() bool { return compiled(log, "sky_vx.hlsl") == 2 }, 5*time.Second, 20*time.Millisecond)

	// keep writing until the watcher is up and a rebuild went through
	sky := filepath.Join(dir, "shaders", "sky_vx.hlsl")
	edit := 0
	require.Eventually(t, func() bool {
		edit++
		_ = os.WriteFile(sky, []byte(fmt.Sprintf("v%d", edit+1)), 0644)
		return compiled(log, "sky_vx.hlsl") >= 4
	}, 5*time.Second, 300*time.Millisecond)

	// a shader in a new directory is claimed by the next rebuild and watched after it
	post := filepath.Join(dir, "shaders", "post")
	require.NoError(t, os.MkdirAll(post, 0755))
	blur := filepath.Join(post, "blur_cs.hlsl")
	require.NoError(t, os.WriteFile(blur, []byte("b1"), 0644))
	require.Eventually(t, func() bool {
		edit++
		_ = os.WriteFile(sky, []byte(fmt.Sprintf("v%d", edit+1)), 0644)
		return compiled(log, "blur_cs.hlsl") >= 2
	}, 5*time.Second, 300*time.Millisecond)

	require.Eventually(t, func() bool {
		edit++
		_ = os.WriteFile(blur, []byte(fmt.Sprintf("b%d", edit+1)), 0644)
		return compiled(log, "blur_cs.hlsl") >= 4
	}, 5*time.Second, 300*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "y", plural(1, "y", "ies"))
	assert.Equal(t, "ies", plural(0, "y", "ies"))
	assert.Equal(t, "ies", plural(3, "y", "ies"))
}
