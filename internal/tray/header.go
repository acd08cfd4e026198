package tray

import (
	"fmt"
	"strings"

	serr "traypack/internal/errors"
)

// ParseName decodes the display name stored in a .trayitem header.
//
// The name is a one-byte length followed by that many bytes, at an offset
// that depends on the item type. Each byte is taken as one Latin-1 code point;
// names are not decoded as UTF-8.
func ParseName(data []byte, t ItemType) (string, error) {
	offset, ok := t.NameOffset()
	if !ok {
		return "", serr.NewFileError("unknown tray item type", t.String(), serr.UnknownItemType, nil)
	}

	if len(data) <= offset {
		return "", serr.NewFileError(
			fmt.Sprintf("truncated header: need %d bytes for name length, have %d", offset+1, len(data)),
			"", serr.TruncatedHeader, nil)
	}

	n := int(data[offset])
	end := offset + 1 + n
	if len(data) < end {
		return "", serr.NewFileError(
			fmt.Sprintf("truncated header: name needs %d bytes, have %d", end, len(data)),
			"", serr.TruncatedHeader, nil)
	}

	var sb strings.Builder
	sb.Grow(n)
	for _, b := range data[offset+1 : end] {
		sb.WriteRune(rune(b))
	}
	return sb.String(), nil
}
