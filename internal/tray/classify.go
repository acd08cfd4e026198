package tray

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	serr "traypack/internal/errors"
	"traypack/internal/log"
)

// Classifier sorts the entries of a tray directory into items, auxiliary
// files and sequel files. It only opens .trayitem files, to read their header.
type Classifier struct {
	fsys fs.FS
	root string
}

// NewClassifier classifies the directory at root on the local filesystem.
func NewClassifier(root string) *Classifier {
	return NewClassifierFS(os.DirFS(root), root)
}

// NewClassifierFS classifies the top level of fsys. root is only used to
// build the paths recorded on items and files.
func NewClassifierFS(fsys fs.FS, root string) *Classifier {
	return &Classifier{fsys: fsys, root: root}
}

// Classify lists the directory and classifies every entry. Only a failure to
// list the directory is returned as an error; per-file failures end up in
// Content.Diagnostics.
func (c *Classifier) Classify() (*Content, error) {
	entries, err := fs.ReadDir(c.fsys, ".")
	if err != nil {
		kind := serr.FileAccessDenied
		if serr.Is(err, fs.ErrNotExist) {
			kind = serr.FileNotFound
		}
		return nil, serr.NewFileError("unable to read tray folder", c.root, kind, err)
	}
	return c.ClassifyEntries(entries), nil
}

// ClassifyEntries classifies an already listed set of entries.
func (c *Classifier) ClassifyEntries(entries []fs.DirEntry) *Content {
	content := &Content{}
	for _, entry := range entries {
		outcome := c.ClassifyEntry(entry)
		if outcome.Err != nil {
			log.LogWithFields(
				log.F("path", outcome.Path),
				log.F("kind", serr.KindOf(outcome.Err).String()),
			).Warnf("Skipping file: %v", outcome.Err)
		}
		content.add(outcome)
	}

	log.LogWithFields(
		log.F("items", len(content.Items)),
		log.F("auxiliary", len(content.Auxiliary)),
		log.F("sequels", len(content.Sequels)),
		log.F("skipped", len(content.Diagnostics)),
	).Debug("Classified tray folder")
	return content
}

// ClassifyEntry classifies a single entry.
func (c *Classifier) ClassifyEntry(entry fs.DirEntry) Outcome {
	name := entry.Name()
	out := Outcome{Path: filepath.Join(c.root, name)}

	if entry.IsDir() {
		out.Ignored = true
		return out
	}

	mode := entry.Type()
	if mode&fs.ModeSymlink != 0 {
		info, err := fs.Stat(c.fsys, name)
		if err != nil {
			return out.fail(serr.NewFileError("unable to follow link", out.Path, serr.UnreadableFile, err))
		}
		if info.IsDir() {
			out.Ignored = true
			return out
		}
		mode = info.Mode().Type()
	}
	if !mode.IsRegular() {
		return out.fail(serr.NewFileError("not a regular file", out.Path, serr.NotRegularFile, nil))
	}

	ext := filepath.Ext(name)
	if len(ext) <= 1 {
		return out.fail(serr.NewFileError("missing file extension", out.Path, serr.UnsupportedExtension, nil))
	}
	out.Kind = KindForExtension(ext[1:])
	if out.Kind == KindUnsupported {
		return out.fail(serr.NewFileError("unknown extension "+ext, out.Path, serr.UnsupportedExtension, nil))
	}

	id, err := ParseIdentifier(strings.TrimSuffix(name, ext))
	if err != nil {
		return out.fail(err)
	}

	if out.Kind != KindPrimary {
		out.File = File{Identifier: id, Path: out.Path, Filename: name}
		return out
	}

	data, err := fs.ReadFile(c.fsys, name)
	if err != nil {
		return out.fail(serr.NewFileError("unable to read tray item", out.Path, serr.UnreadableFile, err))
	}
	itemName, err := ParseName(data, id.Type)
	if err != nil {
		return out.fail(serr.Wrapf(err, "%s", name))
	}

	out.Item = Item{Identifier: id, Name: itemName, Path: out.Path, Filename: name}
	return out
}

func (o Outcome) fail(err error) Outcome {
	o.Err = err
	return o
}
