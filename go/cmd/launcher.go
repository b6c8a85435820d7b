package cmd

import (
	"fmt"
	"io"
	"os"
)

type subcommand struct {
	name, desc string
	main       func(args []string)
}

// in registration order
var subcommands []subcommand

func Register(name, desc string, main func(args []string)) {
	subcommands = append(subcommands, subcommand{name, desc, main})
}

func lookup(name string) (subcommand, bool) {
	for _, c := range subcommands {
		if c.name == name {
			return c, true
		}
	}
	return subcommand{}, false
}

func printCommands(w io.Writer, prog string) {
	width := 0
	for _, c := range subcommands {
		if len(c.name) > width {
			width = len(c.name)
		}
	}
	fmt.Fprintln(w, "Commands:")
	for _, c := range subcommands {
		fmt.Fprintf(w, "  %-*s | %s\n", width, c.name, c.desc)
	}
	fmt.Fprintf(w, "\nExample: %s repl -hooks ./hooks -cart game.z64\n\n", prog)
}

// Main runs the subcommand named by os.Args[1]. The subcommand sees
// "prog name" as its argv[0].
func Main() {
	if len(os.Args) < 2 {
		printCommands(os.Stderr, os.Args[0])
		os.Exit(1)
	}
	c, ok := lookup(os.Args[1])
	if !ok {
		fmt.Fprintf(os.Stderr, "Command '%s' not found.\n\n", os.Args[1])
		printCommands(os.Stderr, os.Args[0])
		os.Exit(1)
	}
	args := append([]string{os.Args[0] + " " + c.name}, os.Args[2:]...)
	c.main(args)
}
