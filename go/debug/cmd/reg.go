package cmd

import (
	"regexp"
	"strings"

	"github.com/lunixbochs/hookcorn/go/models"
)

var strEqNumRe = regexp.MustCompile(`^([a-zA-Z$]+\d*)=(-?(0x|0b)?[0-9a-fA-F]+)$`)

var RegCmd = cmd(&Command{
	Name: "reg",
	Desc: "Read/write regs.",
	Run: func(c *Context, args ...string) error {
		regs := c.M.Regs()
		if len(args) == 0 {
			for _, reg := range models.SortedRegDump(regs) {
				c.Printf("%s 0x%x\n", reg.Name, reg.Val)
			}
			return nil
		}
		for _, v := range args {
			reg := v
			var value uint64
			// check for assignment
			match := strEqNumRe.FindStringSubmatch(v)
			if len(match) > 0 {
				reg = match[1]
				var err error
				if value, err = parseNum(match[2]); err != nil {
					c.Printf("error parsing %s value: %v\n", reg, err)
					continue
				}
			}
			enum, ok := models.LookupReg(reg)
			if !ok {
				if strings.Contains(reg, "=") {
					c.Printf("invalid assignment: %s\n", reg)
				} else {
					c.Printf("reg %s not found\n", reg)
				}
				continue
			}
			if len(match) > 0 {
				models.WriteReg(regs, enum, value)
			} else {
				for _, r := range models.RegDump(regs) {
					if r.Enum == enum {
						c.Printf("%s 0x%x\n", r.Name, r.Val)
					}
				}
			}
		}
		return nil
	},
})
