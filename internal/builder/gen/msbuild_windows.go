//go:build windows

package gen

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/heaths/go-vssetup"
)

var errNoMsbuild = errors.New("MSBuild not found, install Visual Studio 2022 or the Build Tools")

// FindMsbuild returns MSBuild from the PATH, or from the first Visual Studio
// installation registered with the setup configuration API
func FindMsbuild() (string, error) {
	if path, err := exec.LookPath("msbuild"); err == nil {
		return path, nil
	}

	instances, err := vssetup.Instances(false)
	if err != nil {
		return "", fmt.Errorf("failed to enumerate Visual Studio instances: %w", err)
	}

	for _, instance := range instances {
		root, err := instance.InstallationPath()
		if err != nil {
			continue
		}
		msbuild := filepath.Join(root, "MSBuild", "Current", "Bin", "MSBuild.exe")
		if _, err := os.Stat(msbuild); err == nil {
			return msbuild, nil
		}
	}

	return "", errNoMsbuild
}
