package tray

import (
	"fmt"
	"strconv"
	"strings"

	serr "traypack/internal/errors"
)

// idSeparator splits the type code from the instance block in a tray filename.
const idSeparator = "!"

// discriminatorLen is the number of leading characters of the instance block
// (the 0x prefix plus one sub-type byte) that are not part of the id.
const discriminatorLen = 4

// Identifier is the (type, id) pair decoded from a tray filename. Files of one
// gallery item share the id; sequel files continue it with id+1, id+2, ...
type Identifier struct {
	Type ItemType
	ID   uint64
}

// HexID renders the id the way item folders are named.
func (i Identifier) HexID() string {
	return fmt.Sprintf("0x%x", i.ID)
}

func (i Identifier) String() string {
	return fmt.Sprintf("0x%x!%s", uint32(i.Type), i.HexID())
}

// ParseIdentifier decodes the stem (filename without extension) of a tray file.
//
// The stem has the form <hex type>!<instance>, for example
// 0x00000001!0x0012345678abcdef. The type may carry a 0x prefix. The first four
// characters of the instance are dropped and the rest is read as hex with a
// "00" pad in front.
func ParseIdentifier(stem string) (Identifier, error) {
	parts := strings.Split(stem, idSeparator)
	if len(parts) != 2 {
		return Identifier{}, serr.NewFileError(
			fmt.Sprintf("malformed filename: expected 2 parts around %q, got %d", idSeparator, len(parts)),
			stem, serr.MalformedFilename, nil)
	}

	if len(parts[1]) < discriminatorLen {
		return Identifier{}, serr.NewFileError("malformed filename: instance block too short",
			stem, serr.MalformedFilename, nil)
	}
	id, err := strconv.ParseUint("00"+parts[1][discriminatorLen:], 16, 64)
	if err != nil {
		return Identifier{}, serr.NewFileError("malformed filename: bad id", stem, serr.MalformedFilename, err)
	}

	typ, err := strconv.ParseUint(strings.TrimPrefix(parts[0], "0x"), 16, 32)
	if err != nil {
		return Identifier{}, serr.NewFileError("malformed filename: bad type", stem, serr.MalformedFilename, err)
	}

	return Identifier{Type: ItemType(typ), ID: id}, nil
}
