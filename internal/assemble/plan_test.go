package assemble

import (
	"path/filepath"
	"testing"

	"traypack/internal/tray"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func file(typ tray.ItemType, id uint64, name string) tray.File {
	return tray.File{
		Identifier: tray.Identifier{Type: typ, ID: id},
		Path:       filepath.Join("tray", name),
		Filename:   name,
	}
}

func item(typ tray.ItemType, id uint64, name string) tray.Item {
	return tray.Item{
		Identifier: tray.Identifier{Type: typ, ID: id},
		Name:       name,
		Path:       filepath.Join("tray", name+".trayitem"),
		Filename:   name + ".trayitem",
	}
}

func ids(files []tray.File) []uint64 {
	out := make([]uint64, 0, len(files))
	for _, f := range files {
		out = append(out, f.ID)
	}
	return out
}

func TestSequelChainStopsAtGap(t *testing.T) {
	const n = 0x100
	sequels := []tray.File{
		file(2, n+4, "d.sgi"),
		file(1, n+2, "b.sgi"),
		file(1, n+1, "a.sgi"),
		file(3, n, "self.sgi"),
	}

	chain := SequelChain(n, sequels)
	assert.Equal(t, []uint64{n + 1, n + 2}, ids(chain))
}

func TestSequelChainEmpty(t *testing.T) {
	assert.Empty(t, SequelChain(7, nil))
	assert.Empty(t, SequelChain(7, []tray.File{file(1, 9, "x.sgi")}), "chain must start at id+1")
}

func TestSequelChainLong(t *testing.T) {
	var sequels []tray.File
	for i := uint64(50); i >= 1; i-- {
		sequels = append(sequels, file(1, 1000+i, "s.sgi"))
	}
	assert.Len(t, SequelChain(1000, sequels), 50)
}

func TestSequelChainDuplicateIDTakesFirst(t *testing.T) {
	sequels := []tray.File{file(1, 11, "first.sgi"), file(2, 11, "second.sgi")}
	chain := SequelChain(10, sequels)
	require.Len(t, chain, 1)
	assert.Equal(t, "first.sgi", chain[0].Filename)
}

func TestSequelChainOverflow(t *testing.T) {
	const max = ^uint64(0)
	sequels := []tray.File{file(1, max, "last.sgi"), file(1, 0, "wrapped.sgi")}
	chain := SequelChain(max-1, sequels)
	assert.Equal(t, []uint64{max}, ids(chain))
	assert.Empty(t, SequelChain(max, sequels))
}

func TestAuxiliariesMatchOnlyID(t *testing.T) {
	const n, m = 0x10, 0x20
	aux := []tray.File{
		file(3, n, "n.hhi"),
		file(0, m, "m.hhi"),
		file(0, n, "n.householdbinary"),
	}

	matched := Auxiliaries(n, aux)
	require.Len(t, matched, 2)
	assert.Equal(t, "n.hhi", matched[0].Filename)
	assert.Equal(t, "n.householdbinary", matched[1].Filename)
}

func TestItemFolderName(t *testing.T) {
	assert.Equal(t, "Acme! (0x1234)", ItemFolderName(item(tray.Household, 0x1234, "Acme!")))
	assert.Equal(t, "Up_Down (0xab)", ItemFolderName(item(tray.Room, 0xab, "Up/Down")))
	assert.Equal(t, "a_b (0x1)", ItemFolderName(item(tray.Room, 1, `a\b`)))
	assert.Equal(t, "__ (0x2)", ItemFolderName(item(tray.Plot, 2, "..")))
	assert.Equal(t, " (0x0)", ItemFolderName(item(tray.Plot, 0, "")))
}

func TestBuildPlan(t *testing.T) {
	const n = 0x500
	it := item(tray.Plot, n, "Lot")
	aux := []tray.File{file(5, n, "lot.bpi"), file(5, n+1, "other.bpi"), file(0, n, "lot.blueprint")}
	sequels := []tray.File{file(1, n+1, "lot1.sgi"), file(1, n+3, "lot3.sgi")}

	plan, err := BuildPlan(it, aux, sequels)
	require.NoError(t, err)

	assert.Equal(t, "plots", plan.TypeFolder)
	assert.Equal(t, "Lot (0x500)", plan.ItemFolder)
	assert.Equal(t, Copy{Source: it.Path, Name: it.Filename, Role: RolePrimary}, plan.Primary)
	assert.Equal(t, []Copy{
		{Source: filepath.Join("tray", "lot.bpi"), Name: "lot.bpi", Role: RoleAuxiliary},
		{Source: filepath.Join("tray", "lot.blueprint"), Name: "lot.blueprint", Role: RoleAuxiliary},
		{Source: filepath.Join("tray", "lot1.sgi"), Name: "lot1.sgi", Role: RoleSequel},
	}, plan.Extras)
	assert.Len(t, plan.Files(), 4)
	assert.Equal(t, filepath.Join("out", "plots", "Lot (0x500)"), plan.Dir("out"))
}

func TestBuildPlansSkipsUnknownType(t *testing.T) {
	content := &tray.Content{
		Items: []tray.Item{
			item(tray.Household, 1, "Family"),
			item(tray.ItemType(0x99), 2, "Odd"),
			item(tray.Room, 3, "Den"),
		},
	}

	plans := BuildPlans(content)
	require.Len(t, plans, 2)
	assert.Equal(t, "households", plans[0].TypeFolder)
	assert.Equal(t, "rooms", plans[1].TypeFolder)
}
