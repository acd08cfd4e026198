package assemble

import (
	"testing"

	"traypack/internal/tray"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plansFor(t *testing.T, items ...tray.Item) []Plan {
	t.Helper()
	return BuildPlans(&tray.Content{Items: items})
}

func names(plans []Plan) []string {
	out := make([]string, 0, len(plans))
	for _, p := range plans {
		out = append(out, p.Item.Name)
	}
	return out
}

func TestFilter(t *testing.T) {
	plans := plansFor(t,
		item(tray.Household, 1, "Acme Family"),
		item(tray.Plot, 2, "Seaside Villa"),
		item(tray.Room, 3, "Acme Kitchen"),
	)

	tests := []struct {
		name     string
		patterns []string
		folders  []string
		want     []string
	}{
		{"no constraints", nil, nil, []string{"Acme Family", "Seaside Villa", "Acme Kitchen"}},
		{"prefix glob", []string{"Acme*"}, nil, []string{"Acme Family", "Acme Kitchen"}},
		{"several globs", []string{"*Villa", "*Kitchen"}, nil, []string{"Seaside Villa", "Acme Kitchen"}},
		{"type only", nil, []string{"rooms", "plots"}, []string{"Seaside Villa", "Acme Kitchen"}},
		{"glob and type", []string{"Acme*"}, []string{"households"}, []string{"Acme Family"}},
		{"nothing matches", []string{"Zed*"}, nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFilter(tt.patterns, tt.folders)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(f.Apply(plans)))
		})
	}
}

func TestNilFilterMatchesAll(t *testing.T) {
	var f *Filter
	plans := plansFor(t, item(tray.Room, 1, "Den"))
	assert.True(t, f.Match(plans[0]))
	assert.Equal(t, plans, f.Apply(plans))
}

func TestNewFilterBadPattern(t *testing.T) {
	_, err := NewFilter([]string{"[oops"}, nil)
	assert.Error(t, err)
}
