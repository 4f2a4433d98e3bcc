package gen

import (
	"path/filepath"
	"strings"
)

func write(sb *strings.Builder, s ...string) {
	for _, str := range s {
		sb.WriteString(str)
	}
}
func writeln(sb *strings.Builder, s ...string) {
	for _, str := range s {
		sb.WriteString(str)
	}
	sb.WriteByte('\n')
}

func isCxx(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cpp", ".cc", ".cxx", ".c++", ".c":
		return true
	}
	return false
}

func isHeader(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".h", ".hh", ".hpp", ".hxx", ".inl":
		return true
	}
	return false
}

func isShader(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hlsl", ".hlsli", ".fx", ".fxh":
		return true
	}
	return false
}
