package lua

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/lunixbochs/luaish"
	"github.com/lunixbochs/luaish/parse"
	"github.com/pkg/errors"

	"github.com/lunixbochs/hookcorn/go/hooks"
	"github.com/lunixbochs/hookcorn/go/models"
)

// Source loads hook scripts into one interpreter and registers the hooks
// they declare. Every hook it creates calls back into the same LState, so
// it must only be used from the emulator thread.
type Source struct {
	*lua.LState
	reg  *hooks.Registry
	caps hooks.Caps
	cfg  *models.Config

	// script being loaded, used to name hooks registered without a name
	script string
	count  int
}

// NewSource returns a Source whose scripts can register the hook kinds in caps.
func NewSource(reg *hooks.Registry, caps hooks.Caps, cfg *models.Config) (*Source, error) {
	s := &Source{
		LState: lua.NewState(),
		reg:    reg,
		caps:   caps,
		cfg:    cfg,
		script: "console",
	}
	if err := s.loadBindings(); err != nil {
		s.Close()
		return nil, errors.Wrap(err, "failed to load hook bindings")
	}
	return s, nil
}

func isScript(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".lua" || ext == ".lish"
}

// LoadDir drops every registered hook, then runs each script in dir in
// name order. An unreadable directory is reported and leaves no hooks.
func (s *Source) LoadDir(dir string) error {
	s.cfg.Printf("Scanning %s for hooks\n", dir)
	s.reg.Reset()
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.cfg.Printf("Could not read hook directory: %v\n", err)
		return nil
	}
	if err := s.addPath(dir); err != nil {
		return err
	}
	var names []string
	for _, e := range entries {
		if !isScript(e.Name()) {
			continue
		}
		// follows symlinks, unlike e.Type()
		if st, err := os.Stat(filepath.Join(dir, e.Name())); err == nil && st.Mode().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		if err := s.LoadFile(filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

// makes require() find modules next to the hook scripts
func (s *Source) addPath(dir string) error {
	code := fmt.Sprintf("package.path = package.path .. ';' .. %q", filepath.Join(dir, "?.lua"))
	return errors.Wrap(s.DoString(code), "failed to extend package.path")
}

// LoadFile runs one script. Hooks it registers without a name are named
// after the file.
func (s *Source) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read hook script")
	}
	name := filepath.Base(path)
	if err := s.run(name, string(data)); err != nil {
		return errors.Wrapf(err, "failed to load %s", name)
	}
	s.cfg.Printf("Imported %s\n", name)
	return nil
}

func (s *Source) run(script, code string) error {
	prev, prevCount := s.script, s.count
	s.script, s.count = script, 0
	defer func() { s.script, s.count = prev, prevCount }()
	return s.DoString(code)
}

// lines starting a statement are never tried as "return <expr>"
var stmtRe = regexp.MustCompile(`^\s*((local|if|for|while|do|repeat|return|goto)\b|func\s+[A-Za-z_])`)

func (s *Source) loadstring(lines []string, recurse bool) (*lua.LFunction, error, bool) {
	code := strings.Join(lines, "\n")
	if len(lines) == 1 && stmtRe.MatchString(lines[0]) {
		recurse = false
	}
	if len(lines) == 1 && recurse {
		code = "return " + code
	}
	fn, err := s.LoadString(code)
	if err == nil {
		return fn, nil, false
	}
	// an error at EOF means the chunk is not finished yet
	if lerr, ok := err.(*lua.ApiError); ok {
		if perr, ok := lerr.Cause.(*parse.Error); ok {
			if perr.Pos.Line == parse.EOF {
				return nil, err, true
			} else if recurse {
				return s.loadstring(lines, false)
			}
		}
	}
	return nil, err, false
}

// Exec runs console input. It returns true while lines form an incomplete
// chunk and more input is needed. Results are printed.
func (s *Source) Exec(lines []string) (bool, error) {
	if len(lines) == 0 {
		return true, nil
	}
	fn, err, incomplete := s.loadstring(lines, true)
	if incomplete {
		return true, nil
	} else if err != nil {
		return false, err
	}
	prev := s.script
	s.script = "console"
	defer func() { s.script = prev }()

	s.SetTop(0)
	s.Push(fn)
	if err := s.PCall(0, lua.MultRet, nil); err != nil {
		return false, err
	}
	lv := s.getArgs()
	s.SetTop(0)
	if len(lv) > 1 || len(lv) == 1 && lv[0] != lua.LNil {
		s.PrettyPrint(lv, true)
	}
	return false, nil
}

// Returns a list of lua.LValue for each value on the stack.
func (s *Source) getArgs() []lua.LValue {
	lv := make([]lua.LValue, s.GetTop())
	for i := range lv {
		lv[i] = s.CheckAny(i + 1)
	}
	return lv
}

// names hooks registered without an explicit name
func (s *Source) nextName() string {
	s.count++
	return fmt.Sprintf("%s:%d", s.script, s.count)
}
