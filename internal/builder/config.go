package builder

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/expr-lang/expr"
	"github.com/pelletier/go-toml/v2"
	"github.com/qobs-build/shadermake/internal/packages"
	"github.com/qobs-build/shadermake/internal/project"
	"github.com/sergi/go-diff/diffmatchpatch"
)

const ConfigFilename = "Shadermake.toml"

var defaultProfiles = map[string]ProfileSection{
	"release": {
		OptLevel: intOrString{Value: 2},
	},
	"debug": {
		OptLevel: intOrString{Value: ""}, // no -O
	},
}

type Config struct {
	Package  PackageSection              `toml:"package"`
	Target   TargetSection               `toml:"target"`
	Shaders  ShadersSection              `toml:"shaders"`
	Packages map[string]packages.Section `toml:"packages"`
	Profile  map[string]ProfileSection   `toml:"profile"`
}

func (c Config) Profiles() []string {
	profiles := make([]string, 0, len(c.Profile))
	for k := range c.Profile {
		profiles = append(profiles, k)
	}
	slices.Sort(profiles)
	return profiles
}

// optimization maps a profile name to a configuration optimization level ("debug" -> "Debug")
func optimization(profile string) project.Optimization {
	if profile == "" {
		return ""
	}
	r := []rune(profile)
	r[0] = unicode.ToUpper(r[0])
	return project.Optimization(r)
}

type intOrString struct {
	Value any
}

// UnmarshalText accepts both `opt-level = 3` and `opt-level = "s"`
func (o *intOrString) UnmarshalText(b []byte) error {
	if n, err := strconv.Atoi(string(b)); err == nil {
		o.Value = n
		return nil
	}
	o.Value = string(b)
	return nil
}

func (o *intOrString) String() string {
	if o == nil || o.Value == nil {
		return ""
	}

	switch v := o.Value.(type) {
	case int:
		return strconv.Itoa(v)
	case string:
		return v
	default:
		return ""
	}
}

// ProfileSection defines the [profile.*] section
type ProfileSection struct {
	OptLevel intOrString `toml:"opt-level"`
	Defines  []string    `toml:"defines"`
	Cflags   []string    `toml:"cflags"`
}

// PackageSection defines the [package] section
type PackageSection struct {
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	Authors     []string `toml:"authors"`
	Build       string   `toml:"build"`
}

// TargetSection defines the [target(.*)] section
type TargetSection struct {
	Lib     bool              `toml:"lib"`
	Sources []string          `toml:"sources"`
	Headers []string          `toml:"headers"`
	Defines map[string]string `toml:"defines"`
	Links   []string          `toml:"links"`
	Cflags  []string          `toml:"cflags"`
}

// ShadersSection defines the [shaders] section
type ShadersSection struct {
	Compiler         string   `toml:"compiler"`
	Entry            string   `toml:"entry"`
	Intermediate     string   `toml:"intermediate"`
	Stages           []string `toml:"stages"`
	StripStageSuffix bool     `toml:"strip-stage-suffix"`
}

// mergeValues merges src into dst. Structs are merged field by field, maps key by key.
func mergeValues(dst, src any) error {
	dstVal := reflect.ValueOf(dst)
	if dstVal.Kind() != reflect.Pointer {
		return fmt.Errorf("dst must be a pointer")
	}

	dstElem := dstVal.Elem()
	srcVal := reflect.ValueOf(src)

	if srcVal.Kind() == reflect.Pointer {
		srcVal = srcVal.Elem()
	}

	if dstElem.Type() != srcVal.Type() {
		return fmt.Errorf("dst and src must be of the same type")
	}

	switch dstElem.Kind() {
	case reflect.Struct:
		mergeFields(dstElem, srcVal)
	case reflect.Map:
		mergeField(dstElem, srcVal)
	default:
		return fmt.Errorf("can't merge values of kind %s", dstElem.Kind())
	}
	return nil
}

func mergeFields(dstElem, srcVal reflect.Value) {
	for i := range srcVal.NumField() {
		dstField := dstElem.Field(i)
		if !dstField.CanSet() {
			continue
		}
		mergeField(dstField, srcVal.Field(i))
	}
}

func mergeField(dstField, srcField reflect.Value) {
	switch dstField.Kind() {
	case reflect.Slice:
		if !srcField.IsNil() {
			dstField.Set(reflect.AppendSlice(dstField, srcField))
		}
	case reflect.Map:
		if !srcField.IsNil() {
			if dstField.IsNil() {
				dstField.Set(reflect.MakeMap(dstField.Type()))
			}
			for _, key := range srcField.MapKeys() {
				dstField.SetMapIndex(key, srcField.MapIndex(key))
			}
		}
	case reflect.Bool:
		dstField.SetBool(dstField.Bool() || srcField.Bool())
	default:
		if !srcField.IsZero() {
			dstField.Set(srcField)
		}
	}
}

func ParseConfig(rdr io.Reader, env ConfigEnv) (*Config, error) {
	var raw map[string]any
	if err := toml.NewDecoder(rdr).Decode(&raw); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			return nil, errors.New(derr.String())
		}
		return nil, err
	}

	ev := newEvaluator(env)
	if _, err := ev.expand(raw); err != nil {
		return nil, fmt.Errorf("error processing expressions in config: %w", err)
	}

	cfg := &Config{Profile: maps.Clone(defaultProfiles)}
	if err := decodeSection(raw, "package", &cfg.Package); err != nil {
		return nil, err
	}
	if cfg.Package.Name == "" {
		return nil, errors.New("[package] section has no name")
	}

	if err := decodeConditionalSection(raw, "profile", &cfg.Profile, ev); err != nil {
		return nil, err
	}
	if err := decodeConditionalSection(raw, "target", &cfg.Target, ev); err != nil {
		return nil, err
	}
	if err := decodeConditionalSection(raw, "shaders", &cfg.Shaders, ev); err != nil {
		return nil, err
	}
	if err := decodeConditionalSection(raw, "packages", &cfg.Packages, ev); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseConfigFromFile parses and validates a config file from a filepath
func ParseConfigFromFile(path string, env ConfigEnv) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseConfig(bufio.NewReader(f), env)
}

// RunBuildScript evaluates the package build script, which must yield true
func (cfg Config) RunBuildScript(env ConfigEnv) error {
	if cfg.Package.Build == "" {
		return nil
	}

	ev := newEvaluator(env)
	program, err := ev.compile(cfg.Package.Build)
	if err != nil {
		return fmt.Errorf("failed to compile build script for package %q: %w", cfg.Package.Name, err)
	}
	result, err := expr.Run(program, env)
	if err != nil {
		return fmt.Errorf("failed to run build script for package %q: %w", cfg.Package.Name, err)
	}
	if ok, _ := result.(bool); !ok {
		return fmt.Errorf("build script for package %q returned false\n%s", cfg.Package.Name, cfg.Package.Build)
	}
	return nil
}

type ConfigEnv struct {
	TargetOS   string            `expr:"target_os"`
	TargetArch string            `expr:"target_arch"`
	Environ    map[string]string `expr:"environ"`
	basedir    string
}

func NewConfigEnv(basedir string) ConfigEnv {
	environ := make(map[string]string)
	for _, e := range os.Environ() {
		if i := strings.Index(e, "="); i >= 0 {
			environ[e[:i]] = e[i+1:]
		}
	}

	return ConfigEnv{
		TargetOS:   runtime.GOOS,
		TargetArch: runtime.GOARCH,
		Environ:    environ,
		basedir:    basedir,
	}
}

// Patch applies a diff-match-patch patch to a file of the package, e.g. a
// vendored shader include that needs a fix before compiling
func (env ConfigEnv) Patch(path, patchText string) bool {
	fullPath := env.packagePath(path)
	data, err := os.ReadFile(fullPath)
	if err != nil {
		panic(err)
	}
	origText := string(data)

	dmp := diffmatchpatch.New()
	patches, err := dmp.PatchFromText(patchText)
	if err != nil {
		panic(err)
	}
	patchedText, results := dmp.PatchApply(patches, origText)
	if !slices.Contains(results, true) {
		return false // nothing was applied, nothing to write
	}

	if err := os.WriteFile(fullPath, []byte(patchedText), 0644); err != nil {
		panic(err)
	}

	return true
}

func (env ConfigEnv) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(env.packagePath(path))
	if err != nil {
		return "", err
	}

	return string(data), nil
}

func (env ConfigEnv) packagePath(path string) string {
	fullPath := filepath.Join(env.basedir, path)
	rel, err := filepath.Rel(env.basedir, fullPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		panic(fmt.Sprintf("path %q is outside of package directory %q", path, env.basedir))
	}
	return fullPath
}
