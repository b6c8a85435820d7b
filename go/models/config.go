package models

import (
	"fmt"
	"io"
	"os"

	"github.com/shibukawa/configdir"
)

type Config struct {
	Output io.WriteCloser

	Color   bool
	Verbose bool

	// directory scanned for hook scripts at startup
	HookDir string
	// RDRAM size in bytes
	RDRAMSize int
	// hook categories exposed to scripts; disabled ones never fire
	NoButtons bool
	NoCart    bool

	// directory diagnostic dumps are written to
	DumpPath string
	// a tracked write to this address dumps RDRAM and registers (0 disables)
	DumpTrigger uint32
	// a tracked read inside [LogMin, LogMax) dumps RDRAM and registers once per LogMin
	LogMin uint32
	LogMax uint32
}

func (c *Config) Init() *Config {
	if c == nil {
		c = &Config{}
	}
	if c.Output == nil {
		c.Output = os.Stderr
	}
	if c.DumpPath == "" {
		c.DumpPath = "."
	}
	return c
}

// Printf writes to the configured output. It is safe on a nil *Config.
func (c *Config) Printf(f string, args ...interface{}) {
	if c == nil || c.Output == nil {
		fmt.Fprintf(os.Stderr, f, args...)
		return
	}
	fmt.Fprintf(c.Output, f, args...)
}

// DefaultHookDir returns the first existing hookcorn/hooks config folder, or "".
func DefaultHookDir() string {
	dirs := configdir.New("hookcorn", "hooks")
	for _, dir := range dirs.QueryFolders(configdir.All) {
		if st, err := os.Stat(dir.Path); err == nil && st.IsDir() {
			return dir.Path
		}
	}
	return ""
}
