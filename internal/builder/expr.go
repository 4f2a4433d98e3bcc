package builder

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/pelletier/go-toml/v2"
)

var interpolation = regexp.MustCompile(`\{\{(.+?)\}\}`)

// evaluator runs expr-lang expressions against a ConfigEnv. Programs are
// compiled once per source text.
type evaluator struct {
	env      ConfigEnv
	programs map[string]*vm.Program
}

func newEvaluator(env ConfigEnv) *evaluator {
	return &evaluator{env: env, programs: make(map[string]*vm.Program)}
}

func (ev *evaluator) compile(source string) (*vm.Program, error) {
	if program, ok := ev.programs[source]; ok {
		return program, nil
	}
	program, err := expr.Compile(source, expr.Env(ev.env))
	if err != nil {
		return nil, err
	}
	ev.programs[source] = program
	return program, nil
}

func (ev *evaluator) eval(source string) (any, error) {
	program, err := ev.compile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to compile expression %q: %w", source, err)
	}
	result, err := expr.Run(program, ev.env)
	if err != nil {
		return nil, fmt.Errorf("failed to run expression %q: %w", source, err)
	}
	return result, nil
}

// isCondition reports whether a table key is an expression rather than a plain name
func (ev *evaluator) isCondition(key string) bool {
	_, err := ev.compile(key)
	return err == nil
}

// interpolate replaces every {{ expr }} in s with its value
func (ev *evaluator) interpolate(s string) (string, error) {
	if !strings.Contains(s, "{{") {
		return s, nil
	}
	var firstErr error
	out := interpolation.ReplaceAllStringFunc(s, func(m string) string {
		if firstErr != nil {
			return m
		}
		source := strings.TrimSpace(interpolation.FindStringSubmatch(m)[1])
		result, err := ev.eval(source)
		if err != nil {
			firstErr = err
			return m
		}
		return fmt.Sprint(result)
	})
	return out, firstErr
}

// expand interpolates every string of a decoded TOML tree in place
func (ev *evaluator) expand(node any) (any, error) {
	var err error
	switch v := node.(type) {
	case map[string]any:
		for key, val := range v {
			if v[key], err = ev.expand(val); err != nil {
				return nil, err
			}
		}
	case []any:
		for i, item := range v {
			if v[i], err = ev.expand(item); err != nil {
				return nil, err
			}
		}
	case string:
		return ev.interpolate(v)
	}
	return node, nil
}

// retable decodes a generic TOML value into dst by round-tripping it through the encoder
func retable(v any, dst any) error {
	b, err := toml.Marshal(v)
	if err != nil {
		return err
	}
	return toml.Unmarshal(b, dst)
}

// decodeSection decodes a plain [name] table
func decodeSection(raw map[string]any, name string, dst any) error {
	data, ok := raw[name]
	if !ok {
		return nil
	}
	if err := retable(data, dst); err != nil {
		return fmt.Errorf("failed to parse [%s] section: %w", name, err)
	}
	return nil
}

// decodeConditionalSection decodes [name] and then merges every
// [name."<condition>"] sub-table whose condition holds, in key order
func decodeConditionalSection[T any](raw map[string]any, name string, dst *T, ev *evaluator) error {
	data, ok := raw[name]
	if !ok {
		return nil
	}
	table, ok := data.(map[string]any)
	if !ok {
		return fmt.Errorf("invalid [%s] section format: expected a table", name)
	}

	base := make(map[string]any, len(table))
	conditional := make(map[string]map[string]any)
	for key, val := range table {
		if sub, ok := val.(map[string]any); ok && ev.isCondition(key) {
			conditional[key] = sub
			continue
		}
		base[key] = val
	}

	if len(base) > 0 {
		if err := retable(base, dst); err != nil {
			return fmt.Errorf("failed to parse base [%s] section: %w", name, err)
		}
	}

	for _, cond := range slices.Sorted(maps.Keys(conditional)) {
		result, err := ev.eval(cond)
		if err != nil {
			return fmt.Errorf("[%s.%q]: %w", name, cond, err)
		}
		if matched, ok := result.(bool); !ok || !matched {
			continue
		}

		var section T
		if err := retable(conditional[cond], &section); err != nil {
			return fmt.Errorf("failed to parse conditional section [%s.%q]: %w", name, cond, err)
		}
		if err := mergeValues(dst, &section); err != nil {
			return fmt.Errorf("failed to merge conditional section [%s.%q]: %w", name, cond, err)
		}
	}
	return nil
}
