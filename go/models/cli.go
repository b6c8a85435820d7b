package models

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// wrapText splits s into lines of at most width bytes, breaking at the
// last space or newline when there is one.
func wrapText(s string, width int) []string {
	var lines []string
	for len(s) > width {
		cut := strings.LastIndexAny(s[:width], " \n")
		if cut <= 0 {
			lines = append(lines, s[:width])
			s = s[width:]
			continue
		}
		lines = append(lines, s[:cut])
		s = s[cut+1:]
	}
	return append(lines, s)
}

// PrintFlags writes an aligned flag listing to w, wrapping usage at 80 columns.
func PrintFlags(w io.Writer, flags []*flag.Flag) {
	wname, wdef := 0, 0
	for _, f := range flags {
		if len(f.Name) > wname {
			wname = len(f.Name)
		}
		if len(f.DefValue) > wdef {
			wdef = len(f.DefValue)
		}
	}
	// "  -" name " " (default) " "
	indent := wname + wdef + 7
	for _, f := range flags {
		def := ""
		if f.DefValue != "" && f.DefValue != "[]" {
			def = "(" + f.DefValue + ")"
		}
		head := fmt.Sprintf("  -%-*s %-*s ", wname, f.Name, wdef+2, def)
		for i, line := range wrapText(f.Usage, 80-indent) {
			if i > 0 {
				head = strings.Repeat(" ", indent)
			}
			fmt.Fprintf(w, "%s%s\n", head, line)
		}
	}
}
