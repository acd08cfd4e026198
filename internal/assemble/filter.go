package assemble

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Filter keeps plans whose item name matches one of the include patterns and
// whose type folder is allowed. Empty lists allow everything.
type Filter struct {
	include []glob.Glob
	folders map[string]bool
}

// NewFilter compiles the include patterns.
func NewFilter(patterns []string, folders []string) (*Filter, error) {
	f := &Filter{}
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
		f.include = append(f.include, g)
	}
	if len(folders) > 0 {
		f.folders = make(map[string]bool, len(folders))
		for _, folder := range folders {
			f.folders[folder] = true
		}
	}
	return f, nil
}

// Match reports whether p passes the filter. A nil filter matches everything.
func (f *Filter) Match(p Plan) bool {
	if f == nil {
		return true
	}
	if f.folders != nil && !f.folders[p.TypeFolder] {
		return false
	}
	if len(f.include) == 0 {
		return true
	}
	for _, g := range f.include {
		if g.Match(p.Item.Name) {
			return true
		}
	}
	return false
}

// Apply returns the plans that pass the filter.
func (f *Filter) Apply(plans []Plan) []Plan {
	if f == nil {
		return plans
	}
	kept := plans[:0:0]
	for _, p := range plans {
		if f.Match(p) {
			kept = append(kept, p)
		}
	}
	return kept
}
