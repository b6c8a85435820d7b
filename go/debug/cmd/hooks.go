package cmd

import (
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/lunixbochs/hookcorn/go/hooks"
	"github.com/lunixbochs/hookcorn/go/models/cpu"
)

var PCCmd = cmd(&Command{
	Name: "pc",
	Desc: "Arrive at an address, firing PC hooks.",
	Run: func(c *Context, addr uint32) error {
		if err := c.M.Step(addr); err != nil {
			return err
		}
		if pc := c.M.Regs().PC; pc != addr {
			c.Printf("redirected to 0x%08x\n", pc)
		}
		return nil
	},
})

// accepts button names or a raw mask
func parseButtons(args []string) (uint32, error) {
	var mask uint32
	for _, arg := range args {
		if n, err := parseNum(arg); err == nil {
			mask |= uint32(n)
			continue
		}
		found := false
		for bit, name := range cpu.ButtonNames {
			if strings.EqualFold(name, arg) {
				mask |= 1 << uint(bit)
				found = true
			}
		}
		if !found {
			return 0, errors.Errorf("unknown button %q", arg)
		}
	}
	return mask, nil
}

var InputCmd = cmd(&Command{
	Name: "input",
	Desc: "Sample controller input, firing button hooks: input A_BUTTON START_BUTTON",
	Run: func(c *Context, buttons ...string) error {
		mask, err := parseButtons(buttons)
		if err != nil {
			return err
		}
		return c.M.SampleInput(mask)
	},
})

var CartCmd = cmd(&Command{
	Name: "cart",
	Desc: "Run a PI DMA, firing cart hooks: cart <read|write> <cart addr> <len> <dram addr>",
	Run: func(c *Context, dir string, cartAddr, length, dramAddr uint32) error {
		switch dir {
		case "read":
			return c.M.PIDMARead(cartAddr, length, dramAddr)
		case "write":
			return c.M.PIDMAWrite(cartAddr, length, dramAddr)
		}
		return errors.Errorf("unknown direction %q", dir)
	},
})

var HooksCmd = cmd(&Command{
	Name: "hooks",
	Desc: "List registered hooks.",
	Run: func(c *Context) error {
		reg := c.M.Registry()
		caps := c.M.Engine().Caps()
		for _, kind := range []hooks.Kind{hooks.PC, hooks.Input, hooks.RAMRead, hooks.RAMWrite, hooks.CartRead, hooks.CartWrite} {
			info := reg.Hooks(kind)
			if len(info) == 0 {
				continue
			}
			suffix := ""
			if !caps.Has(kind) {
				suffix = " (disabled)"
			}
			c.Printf("%s hooks%s:\n", kind, suffix)
			for _, h := range info {
				c.Printf("  %s\n", h)
			}
		}
		return nil
	},
})

var DumpCmd = cmd(&Command{
	Name: "dump",
	Desc: "Write <prefix>.rdram.bin and <prefix>.regs.json to the dump directory.",
	Run: func(c *Context, prefix string) error {
		return c.M.DumpState(prefix)
	},
})

var LoadCmd = cmd(&Command{
	Name: "load",
	Desc: "Reload the hook directory, or load a script or directory: load [path]",
	Run: func(c *Context, args ...string) error {
		if len(args) == 0 {
			return c.M.LoadHooks()
		}
		st, err := os.Stat(args[0])
		if err != nil {
			return err
		}
		if st.IsDir() {
			return c.M.Source().LoadDir(args[0])
		}
		return c.M.Source().LoadFile(args[0])
	},
})

var LuaCmd = cmd(&Command{
	Name: "lua",
	Desc: "Run a line of Lua in the hook interpreter.",
	Run: func(c *Context, code ...string) error {
		more, err := c.M.Source().Exec([]string{strings.Join(code, " ")})
		if more {
			return errors.New("incomplete statement")
		}
		return err
	},
})

var SaveCmd = cmd(&Command{
	Name: "save",
	Desc: "Save a snapshot of registers and RDRAM.",
	Run: func(c *Context, path string) error {
		return c.M.SaveSnapshot(path)
	},
})

var RestoreCmd = cmd(&Command{
	Name: "restore",
	Desc: "Restore a snapshot of registers and RDRAM.",
	Run: func(c *Context, path string) error {
		return c.M.LoadSnapshot(path)
	},
})
