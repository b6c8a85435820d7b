package models

import (
	"bytes"
	"flag"
	"strings"
	"testing"

	"github.com/lunixbochs/hookcorn/go/models/cpu"
)

func TestRegChanges(t *testing.T) {
	var before, after cpu.Regs
	after.GPR[2] = 0x1234
	after.PC = 0x80000400
	cs := RegChanges(&before, &after, true)
	if len(cs.Changes) != 2 || cs.Count() != 2 {
		t.Fatalf("changes: %d", len(cs.Changes))
	}
	out := cs.String(false)
	compare := "+   v0 0x0000000000001234 +   pc 0x0000000080000400\n"
	if out != compare {
		t.Fatalf("got %q", out)
	}
	all := RegChanges(&before, &after, false)
	if len(all.Changes) != 35 || all.Count() != 2 {
		t.Fatalf("full listing: %d entries, %d changed", len(all.Changes), all.Count())
	}
	if lines := strings.Count(all.String(false), "\n"); lines != 9 {
		t.Fatalf("expected 9 rows, got %d", lines)
	}
	if colored := cs.String(true); !strings.Contains(colored, "1234") || !strings.Contains(colored, "\x1b[") {
		t.Fatalf("colored output: %q", colored)
	}
}

func TestLookupReg(t *testing.T) {
	for name, enum := range map[string]int{"v0": 2, "r31": 31, "$4": 4, "ra": 31, "pc": REG_PC, "lo": REG_LO} {
		if got, ok := LookupReg(name); !ok || got != enum {
			t.Fatalf("%s: got %d, %v", name, got, ok)
		}
	}
	if _, ok := LookupReg("r32"); ok {
		t.Fatal("r32 resolved")
	}
	var regs cpu.Regs
	WriteReg(&regs, REG_HI, 0xffffffffffffffff)
	if regs.HI != -1 {
		t.Fatalf("hi = %d", regs.HI)
	}
}

func TestSortedRegDump(t *testing.T) {
	var regs cpu.Regs
	dump := SortedRegDump(&regs)
	// names sort naturally, not by index
	var names []string
	for _, r := range dump {
		names = append(names, r.Name)
	}
	joined := strings.Join(names, ",")
	if !strings.HasPrefix(joined, "a0,a1,a2,a3,at,fp,gp,hi") {
		t.Fatalf("order: %s", joined)
	}
}

func TestHexDump(t *testing.T) {
	lines := HexDump(0x80000000, []byte("ABCD\x00\x01\x02\x03"))
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "0x80000000: 41424344 00010203") {
		t.Fatalf("hexdump: %q", lines)
	}
}

func TestPrintFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.String("hooks", "", "hook script directory")
	fs.Int("rdram", 8, "RDRAM size in bytes")
	var flags []*flag.Flag
	fs.VisitAll(func(f *flag.Flag) { flags = append(flags, f) })
	var buf bytes.Buffer
	PrintFlags(&buf, flags)
	out := buf.String()
	if !strings.Contains(out, "-hooks") || !strings.Contains(out, "(8)") || strings.Count(out, "\n") != 2 {
		t.Fatalf("flags: %q", out)
	}
}

func TestConfigInit(t *testing.T) {
	var c *Config
	c = c.Init()
	if c.Output == nil || c.DumpPath != "." {
		t.Fatalf("defaults: %+v", c)
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("dump state when this address is written", 16)
	compare := []string{"dump state when", "this address is", "written"}
	if strings.Join(lines, "|") != strings.Join(compare, "|") {
		t.Fatalf("wrapped: %q", lines)
	}
	if lines := wrapText("abcdefghij", 4); strings.Join(lines, "|") != "abcd|efgh|ij" {
		t.Fatalf("hard wrap: %q", lines)
	}
}
