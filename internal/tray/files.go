package tray

import "fmt"

// FileKind says which collection a tray file belongs to, decided by extension.
type FileKind int

const (
	KindUnsupported FileKind = iota
	KindPrimary              // .trayitem, carries the display name
	KindAuxiliary            // shares the primary item's id
	KindSequel               // continues the id chain after the primary item
)

func (k FileKind) String() string {
	switch k {
	case KindPrimary:
		return "primary"
	case KindAuxiliary:
		return "auxiliary"
	case KindSequel:
		return "sequel"
	default:
		return "unsupported"
	}
}

// Extension matching is exact and case-sensitive.
var extensionKinds = map[string]FileKind{
	"trayitem":        KindPrimary,
	"householdbinary": KindAuxiliary,
	"hhi":             KindAuxiliary,
	"blueprint":       KindAuxiliary,
	"bpi":             KindAuxiliary,
	"room":            KindAuxiliary,
	"rmi":             KindAuxiliary,
	"sgi":             KindSequel,
}

// KindForExtension maps an extension (without the dot) to its FileKind.
func KindForExtension(ext string) FileKind {
	return extensionKinds[ext]
}

// Item is a decoded .trayitem file.
type Item struct {
	Identifier
	Name     string
	Path     string
	Filename string
}

func (i Item) String() string {
	return fmt.Sprintf("%s %q (%s)", i.Type, i.Name, i.HexID())
}

// File is an auxiliary or sequel companion file. Which of the two it is
// depends on the collection holding it.
type File struct {
	Identifier
	Path     string
	Filename string
}

// Diagnostic records a file that was dropped during classification.
type Diagnostic struct {
	Path string
	Err  error
}

// Content is the classified view of one tray directory. It is built once and
// only read afterwards.
type Content struct {
	Items       []Item
	Auxiliary   []File
	Sequels     []File
	Diagnostics []Diagnostic
}

// Outcome is the classification result for a single directory entry. Exactly
// one of Item, File or Err is meaningful, selected by Kind and Err.
type Outcome struct {
	Kind    FileKind
	Item    Item
	File    File
	Err     error
	Path    string
	Ignored bool // directories: not a diagnostic, not a file
}

// add folds a single outcome into the content.
func (c *Content) add(o Outcome) {
	switch {
	case o.Ignored:
	case o.Err != nil:
		c.Diagnostics = append(c.Diagnostics, Diagnostic{Path: o.Path, Err: o.Err})
	case o.Kind == KindPrimary:
		c.Items = append(c.Items, o.Item)
	case o.Kind == KindAuxiliary:
		c.Auxiliary = append(c.Auxiliary, o.File)
	case o.Kind == KindSequel:
		c.Sequels = append(c.Sequels, o.File)
	}
}
