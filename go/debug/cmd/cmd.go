package cmd

import (
	"bufio"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/lunixbochs/argjoy"
	"github.com/lunixbochs/fvbommel-util/sortorder"
	"github.com/mattn/go-shellwords"
)

type Command struct {
	Name string
	Desc string
	Run  interface{}
}

var Commands = make(map[string]*Command)

func cmd(c *Command) *Command {
	fn := reflect.ValueOf(c.Run)
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		panic(fmt.Sprintf("Command.Run must be a func: got (%T) %#v\n", c.Run, c.Run))
	}
	Commands[c.Name] = c
	return c
}

var aj = argjoy.NewArgjoy()

// command arguments arrive as strings; numbers accept 0x and 0b prefixes
func strToNum(arg interface{}, vals []interface{}) error {
	s, ok := vals[0].(string)
	if !ok {
		return argjoy.NoMatch
	}
	switch v := arg.(type) {
	case *uint32:
		n, err := strconv.ParseUint(s, 0, 32)
		*v = uint32(n)
		return err
	case *uint64:
		n, err := strconv.ParseUint(s, 0, 64)
		*v = n
		return err
	case *int64:
		n, err := strconv.ParseInt(s, 0, 64)
		*v = n
		return err
	}
	return argjoy.NoMatch
}

func init() {
	aj.Register(strToNum)
}

func parseNum(s string) (uint64, error) {
	if len(s) > 0 && s[0] == '-' {
		n, err := strconv.ParseInt(s, 0, 64)
		return uint64(n), err
	}
	return strconv.ParseUint(s, 0, 64)
}

func Run(c *Context, line string) error {
	args, err := shellwords.Parse(line)
	if err != nil {
		c.Printf("parse error: %v\n", err)
		return nil
	}
	if len(args) == 0 {
		return nil
	}
	name, args := args[0], args[1:]
	if cmd, ok := Commands[name]; ok {
		out, err := aj.Call(cmd.Run, c, args)
		if err != nil {
			c.Printf("error: %v\n", err)
		}
		if len(out) > 0 {
			if err, ok := out[0].(error); ok {
				c.Printf("error: %v\n", err)
			}
		}
	} else {
		c.Printf("command not found.\n")
	}
	return nil
}

// RunScript runs one command per line of r. Blank lines and lines starting
// with # are skipped.
func RunScript(c *Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := Run(c, line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

var HelpCmd = cmd(&Command{
	Name: "help",
	Desc: "List commands.",
	Run: func(c *Context) error {
		names := make([]string, 0, len(Commands))
		for name := range Commands {
			names = append(names, name)
		}
		sort.Sort(sortorder.Natural(names))
		for _, name := range names {
			c.Printf("  %-8s %s\n", name, Commands[name].Desc)
		}
		return nil
	},
})
