package tray

import (
	"fmt"
	"sort"
)

// ItemType is the numeric type code in front of the `!` of a tray filename.
type ItemType uint32

const (
	Household ItemType = 0x01
	Plot      ItemType = 0x02
	Room      ItemType = 0x03
)

// itemTypeInfo holds everything that differs between gallery item types.
// Supporting a new type means adding one row here.
type itemTypeInfo struct {
	label      string
	folder     string
	nameOffset int // offset of the one-byte name length in the .trayitem header
}

var itemTypes = map[ItemType]itemTypeInfo{
	Household: {label: "household", folder: "households", nameOffset: 0x26},
	Plot:      {label: "plot", folder: "plots", nameOffset: 0x27},
	Room:      {label: "room", folder: "rooms", nameOffset: 0x27},
}

// Known reports whether t is a gallery item type we can unpack.
func (t ItemType) Known() bool {
	_, ok := itemTypes[t]
	return ok
}

// NameOffset returns the header offset of the name-length byte.
func (t ItemType) NameOffset() (int, bool) {
	info, ok := itemTypes[t]
	return info.nameOffset, ok
}

// Folder returns the output subfolder for items of this type.
func (t ItemType) Folder() (string, bool) {
	info, ok := itemTypes[t]
	return info.folder, ok
}

func (t ItemType) String() string {
	if info, ok := itemTypes[t]; ok {
		return info.label
	}
	return fmt.Sprintf("unknown(0x%x)", uint32(t))
}

// Folders lists the output subfolder of every known type.
func Folders() []string {
	codes := make([]ItemType, 0, len(itemTypes))
	for t := range itemTypes {
		codes = append(codes, t)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	folders := make([]string, 0, len(codes))
	for _, t := range codes {
		folders = append(folders, itemTypes[t].folder)
	}
	return folders
}
