package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   bool
		prompt int
	}{
		{"yes", "y\n", true, 1},
		{"full yes", "YES\n", true, 1},
		{"no", "n\n", false, 1},
		{"empty line", "\n", false, 1},
		{"end of input", "", false, 1},
		{"retry after garbage", "maybe\ny\n", true, 2},
		{"garbage then eof", "maybe", false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got := confirm(strings.NewReader(tt.input), &out, "Continue?")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.prompt, strings.Count(out.String(), "Continue? [y/N]"))
		})
	}
}
