package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/shibukawa/configdir"

	"github.com/lunixbochs/hookcorn/go"
	"github.com/lunixbochs/hookcorn/go/debug/cmd"
)

// Repl is the interactive console. Lines starting with a command name run
// that command; anything else is Lua for the hook interpreter.
type Repl struct {
	m   *hookcorn.Machine
	ctx *cmd.Context
	rl  *readline.Instance

	multiline bool
	lines     []string
}

type nullCloser struct{ io.Writer }

func (n *nullCloser) Close() error { return nil }

func historyPath() string {
	configDirs := configdir.New("hookcorn", "repl")
	cacheDir := configDirs.QueryCacheFolder()
	if err := cacheDir.MkdirAll(); err != nil {
		return ""
	}
	return filepath.Join(cacheDir.Path, "history")
}

func NewRepl(m *hookcorn.Machine) (*Repl, error) {
	rl, err := readline.NewEx(&readline.Config{
		InterruptPrompt: "\n",
		HistoryFile:     historyPath(),
	})
	if err != nil {
		return nil, err
	}
	// hijack machine output so we can reprint the prompt
	if m.Config().Output == os.Stderr {
		m.Config().Output = &nullCloser{rl.Stderr()}
	}
	return &Repl{
		m:   m,
		ctx: &cmd.Context{Writer: rl.Stdout(), M: m},
		rl:  rl,
	}, nil
}

func (r *Repl) setPrompt() {
	r.rl.SetPrompt(fmt.Sprintf("%#08x> ", r.m.Regs().PC))
}

func (r *Repl) Reset() {
	r.lines = nil
	r.multiline = false
	r.setPrompt()
}

func isCommand(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	_, ok := cmd.Commands[fields[0]]
	return ok
}

// Feed handles one line of input. It returns true while a Lua chunk is
// still incomplete.
func (r *Repl) Feed(line string) bool {
	if !r.multiline && isCommand(line) {
		cmd.Run(r.ctx, line)
		return false
	}
	if !r.multiline {
		if strings.TrimSpace(line) == "" {
			return false
		}
		r.lines = []string{line}
	} else {
		r.lines = append(r.lines, line)
	}
	more, err := r.m.Source().Exec(r.lines)
	if err != nil {
		r.ctx.Printf("%v\n", err)
	}
	r.multiline = more
	if !more {
		r.lines = nil
	}
	return more
}

func (r *Repl) Run() {
	defer r.Close()
	r.setPrompt()
	for {
		line, err := r.rl.Readline()
		if err == readline.ErrInterrupt {
			r.Reset()
			continue
		} else if err != nil {
			break
		}
		if r.Feed(line) {
			r.rl.SetPrompt("... ")
		} else {
			r.setPrompt()
		}
	}
}

func (r *Repl) Close() {
	r.rl.Close()
}
