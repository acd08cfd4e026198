package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// confirm asks a yes/no question until it gets a usable answer. Empty input
// and end of input mean no.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	reader := bufio.NewReader(in)
	fmt.Fprintln(out, infoText(prompt+" [y/N]"))
	for {
		line, err := reader.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		case "n", "no", "":
			return false
		}
		if err != nil {
			return false
		}
		fmt.Fprintln(out, infoText("Invalid input. "+prompt+" [y/N]"))
	}
}
