package project

import (
	"slices"
	"strings"
)

// SourceFileSet is the ordered file list of a project. Discovered files are
// fixed once populated; generated outputs live in a separate append-only list
// so that scanning discovered files never observes them.
type SourceFileSet struct {
	files     []string
	generated []string
	seen      map[string]struct{}
}

func (s *SourceFileSet) populate(files []string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	for _, f := range files {
		if _, ok := s.seen[f]; ok {
			continue
		}
		s.seen[f] = struct{}{}
		s.files = append(s.files, f)
	}
}

// Files returns a snapshot of the discovered files
func (s *SourceFileSet) Files() []string {
	return slices.Clone(s.files)
}

// Generated returns the generated outputs in registration order
func (s *SourceFileSet) Generated() []string {
	return slices.Clone(s.generated)
}

// All returns discovered files followed by generated outputs
func (s *SourceFileSet) All() []string {
	all := make([]string, 0, len(s.files)+len(s.generated))
	all = append(all, s.files...)
	return append(all, s.generated...)
}

func (s *SourceFileSet) Len() int { return len(s.files) + len(s.generated) }

// AddGenerated records a generated output. It returns false if the path is already known.
func (s *SourceFileSet) AddGenerated(path string) bool {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[path]; ok {
		return false
	}
	s.seen[path] = struct{}{}
	s.generated = append(s.generated, path)
	return true
}

func (s *SourceFileSet) Contains(path string) bool {
	_, ok := s.seen[path]
	return ok
}

// Match returns the discovered files whose name ends with suffix, ignoring case
func (s *SourceFileSet) Match(suffix string) []string {
	var matched []string
	lower := strings.ToLower(suffix)
	for _, f := range s.files {
		if strings.HasSuffix(strings.ToLower(f), lower) {
			matched = append(matched, f)
		}
	}
	return matched
}
