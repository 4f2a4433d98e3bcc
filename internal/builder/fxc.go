package builder

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/qobs-build/shadermake/internal/shader"
)

// FxcEnv overrides shader compiler discovery
const FxcEnv = "FXC"

var commonShaderCompilers = []string{"fxc", "fxc.exe"}

// findShaderCompiler attempts to find the fxc shader compiler on the system.
// It falls back to plain "fxc" so the generated command lines stay usable on
// machines where the compiler is only on the PATH of the build environment.
func findShaderCompiler(environ map[string]string) string {
	if fxc := environ[FxcEnv]; fxc != "" {
		return fxc
	}

	for _, compiler := range commonShaderCompilers {
		path, err := exec.LookPath(compiler)
		if err == nil {
			return path
		}
	}

	if runtime.GOOS == "windows" {
		if fxc := findWindowsKitsFxc(environ); fxc != "" {
			return fxc
		}
	}

	return shader.DefaultCompiler
}

// findWindowsKitsFxc returns the fxc.exe of the newest installed Windows 10 SDK
func findWindowsKitsFxc(environ map[string]string) string {
	programFiles := environ["ProgramFiles(x86)"]
	if programFiles == "" {
		return ""
	}
	kitsBin := filepath.Join(programFiles, "Windows Kits", "10", "bin")
	matches, err := doublestar.Glob(os.DirFS(kitsBin), "*/x64/fxc.exe", doublestar.WithFilesOnly())
	if err != nil || len(matches) == 0 {
		return ""
	}
	slices.Sort(matches)
	return filepath.Join(kitsBin, filepath.FromSlash(matches[len(matches)-1]))
}
