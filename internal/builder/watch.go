package builder

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/qobs-build/shadermake/internal/builder/gen"
	"github.com/qobs-build/shadermake/internal/msg"
)

const watchDebounce = 150 * time.Millisecond

var errNothingToWatch = errors.New("no shader files to watch")

func isShaderSource(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hlsl", ".hlsli":
		return true
	}
	return false
}

// runNative resolves the project again and runs its steps with the native
// runner. It returns the directories holding shader inputs.
func (b *Builder) runNative(ctx context.Context) ([]string, error) {
	res, err := b.Resolve()
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, step := range res.Steps {
		dir := filepath.Dir(step.Input)
		if !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	slices.Sort(dirs)

	runner := gen.NewNativeRunner()
	runner.AddProject(res.Project)
	return dirs, runner.Run(ctx, b.BuildDir())
}

// Watch builds with the native runner, then rebuilds whenever a shader in one
// of the watched directories changes. It returns when ctx is done.
func (b *Builder) Watch(ctx context.Context) error {
	dirs, err := b.runNative(ctx)
	if len(dirs) == 0 {
		if err != nil {
			return err
		}
		return errNothingToWatch
	}
	if err != nil {
		msg.Error("%v", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	watch := func(dirs []string) {
		for _, dir := range dirs {
			if watched[dir] {
				continue
			}
			if err := watcher.Add(dir); err != nil {
				msg.Warn("can't watch %s: %v", dir, err)
				continue
			}
			watched[dir] = true
		}
	}
	watch(dirs)
	msg.Info("watching %d director%s for shader changes", len(watched), plural(len(watched), "y", "ies"))

	debounce := time.NewTimer(watchDebounce)
	debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isShaderSource(event.Name) || event.Op == fsnotify.Chmod {
				continue
			}
			debounce.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			msg.Warn("watch: %v", err)

		case <-debounce.C:
			dirs, err := b.runNative(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				msg.Error("%v", err)
			}
			watch(dirs)
		}
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
