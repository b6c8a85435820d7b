package cmd

import (
	"github.com/pkg/errors"

	"github.com/lunixbochs/hookcorn/go/models"
)

var MemCmd = cmd(&Command{
	Name: "mem",
	Desc: "Dump memory without firing hooks.",
	Run: func(c *Context, addr, size uint32) error {
		if size > 0x10000 {
			return errors.Errorf("size %#x too large", size)
		}
		mem := make([]byte, 0, size)
		for i := uint32(0); i < size; i += 4 {
			word, err := c.M.ReadWord(addr + i)
			if err != nil {
				return err
			}
			mem = append(mem, byte(word>>24), byte(word>>16), byte(word>>8), byte(word))
		}
		if len(mem) > int(size) {
			mem = mem[:size]
		}
		for _, line := range models.HexDump(addr, mem) {
			c.Printf("  %s\n", line)
		}
		return nil
	},
})

var ReadCmd = cmd(&Command{
	Name: "read",
	Desc: "Read a word, firing RAM read hooks.",
	Run: func(c *Context, addr uint32) error {
		val, err := c.M.ReadAlignedWord(addr)
		if err != nil {
			return err
		}
		c.Printf("0x%08x: 0x%08x\n", addr, val)
		return nil
	},
})

var WriteCmd = cmd(&Command{
	Name: "write",
	Desc: "Write a word, firing RAM write hooks: write <addr> <value> [mask]",
	Run: func(c *Context, args ...string) error {
		if len(args) < 2 || len(args) > 3 {
			return errors.New("usage: write <addr> <value> [mask]")
		}
		nums := []uint64{0, 0, 0xffffffff}
		for i, arg := range args {
			n, err := parseNum(arg)
			if err != nil {
				return errors.Wrapf(err, "bad argument %q", arg)
			}
			nums[i] = n
		}
		return c.M.WriteAlignedWord(uint32(nums[0]), uint32(nums[1]), uint32(nums[2]))
	},
})
