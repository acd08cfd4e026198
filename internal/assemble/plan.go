// Package assemble groups classified tray files into gallery items and
// materializes each one into its own output folder.
package assemble

import (
	"fmt"
	"path/filepath"
	"strings"

	"traypack/internal/log"
	"traypack/internal/tray"
)

// Role tells why a file is part of a gallery item.
type Role string

const (
	RolePrimary   Role = "primary"
	RoleAuxiliary Role = "auxiliary"
	RoleSequel    Role = "sequel"
)

// Copy is one file to place in a gallery item folder.
type Copy struct {
	Source string
	Name   string
	Role   Role
}

// Plan is everything needed to materialize one gallery item.
type Plan struct {
	Item       tray.Item
	TypeFolder string // households, plots or rooms
	ItemFolder string // "<name> (0x<id>)"
	Primary    Copy
	Extras     []Copy
}

// Dir returns the item folder under the output root.
func (p Plan) Dir(output string) string {
	return filepath.Join(output, p.TypeFolder, p.ItemFolder)
}

// Files returns the primary copy followed by the extras.
func (p Plan) Files() []Copy {
	return append([]Copy{p.Primary}, p.Extras...)
}

var folderNameReplacer = strings.NewReplacer("/", "_", "\\", "_", "\x00", "_")

// ItemFolderName names the folder of a gallery item. Path separators in the
// item name are replaced so the folder stays inside its type folder.
func ItemFolderName(item tray.Item) string {
	name := folderNameReplacer.Replace(item.Name)
	if name == "." || name == ".." {
		name = strings.Repeat("_", len(name))
	}
	return fmt.Sprintf("%s (%s)", name, item.HexID())
}

// SequelChain returns the sequel files continuing id: the file with id+1,
// then id+2, and so on until the first missing id.
func SequelChain(id uint64, sequels []tray.File) []tray.File {
	var chain []tray.File
	for expected := id + 1; expected != 0; expected++ {
		found := false
		for _, s := range sequels {
			if s.ID == expected {
				chain = append(chain, s)
				found = true
				break
			}
		}
		if !found {
			break
		}
	}
	return chain
}

// Auxiliaries returns the auxiliary files sharing id.
//
// Only the numeric id is compared: companion files of one item carry their
// own type codes in front of the `!`.
func Auxiliaries(id uint64, auxiliary []tray.File) []tray.File {
	var matched []tray.File
	for _, f := range auxiliary {
		if f.ID == id {
			matched = append(matched, f)
		}
	}
	return matched
}

// BuildPlan assembles the plan for a single item.
func BuildPlan(item tray.Item, auxiliary, sequels []tray.File) (Plan, error) {
	folder, ok := item.Type.Folder()
	if !ok {
		return Plan{}, fmt.Errorf("no output folder for tray item type %s", item.Type)
	}

	plan := Plan{
		Item:       item,
		TypeFolder: folder,
		ItemFolder: ItemFolderName(item),
		Primary:    Copy{Source: item.Path, Name: item.Filename, Role: RolePrimary},
	}
	for _, f := range Auxiliaries(item.ID, auxiliary) {
		plan.Extras = append(plan.Extras, Copy{Source: f.Path, Name: f.Filename, Role: RoleAuxiliary})
	}
	for _, f := range SequelChain(item.ID, sequels) {
		plan.Extras = append(plan.Extras, Copy{Source: f.Path, Name: f.Filename, Role: RoleSequel})
	}
	return plan, nil
}

// BuildPlans builds one plan per item, in item order.
func BuildPlans(content *tray.Content) []Plan {
	plans := make([]Plan, 0, len(content.Items))
	for _, item := range content.Items {
		plan, err := BuildPlan(item, content.Auxiliary, content.Sequels)
		if err != nil {
			log.LogWithFields(log.F("item", item.Name), log.F("path", item.Path)).
				Errorf("Skipping gallery item: %v", err)
			continue
		}
		log.LogWithFields(log.F("item", item.Name), log.F("extras", len(plan.Extras))).
			Debug("Planned gallery item")
		plans = append(plans, plan)
	}
	return plans
}
