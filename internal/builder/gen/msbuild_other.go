//go:build !windows

package gen

import (
	"errors"
	"os/exec"
)

var errNoMsbuild = errors.New("MSBuild not found in PATH, open the generated solution on Windows instead")

// FindMsbuild returns MSBuild from the PATH
func FindMsbuild() (string, error) {
	if path, err := exec.LookPath("msbuild"); err == nil {
		return path, nil
	}
	return "", errNoMsbuild
}
