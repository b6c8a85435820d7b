package hookcorn

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/lunixbochs/hookcorn/go/dump"
	"github.com/lunixbochs/hookcorn/go/hooks"
	"github.com/lunixbochs/hookcorn/go/lua"
	"github.com/lunixbochs/hookcorn/go/models"
	"github.com/lunixbochs/hookcorn/go/models/cpu"
)

// Machine owns a core, its hook registry and the scripts feeding it.
// It sits between the core and the hook engine to add the diagnostic dump
// triggers configured in models.Config.
type Machine struct {
	*cpu.R4300
	config *models.Config
	reg    *hooks.Registry
	engine *hooks.Engine
	source *lua.Source

	// base of the last read-range dump
	lastLog   uint32
	logDumped bool
}

func NewMachine(config *models.Config) (*Machine, error) {
	config = config.Init()
	caps := hooks.CapAll
	if config.NoButtons {
		caps &^= hooks.CapInput
	}
	if config.NoCart {
		caps &^= hooks.CapCart
	}
	m := &Machine{
		R4300:  cpu.NewR4300(config.RDRAMSize),
		config: config,
		reg:    hooks.NewRegistry(config),
	}
	m.engine = hooks.NewEngine(m.reg, caps, config)
	source, err := lua.NewSource(m.reg, caps, config)
	if err != nil {
		return nil, err
	}
	m.source = source
	m.R4300.SetDispatcher(m)
	return m, nil
}

func (m *Machine) Config() *models.Config    { return m.config }
func (m *Machine) Registry() *hooks.Registry { return m.reg }
func (m *Machine) Engine() *hooks.Engine     { return m.engine }
func (m *Machine) Source() *lua.Source       { return m.source }

func (m *Machine) Close() {
	m.source.Close()
}

// LoadHooks (re)loads the configured hook directory.
func (m *Machine) LoadHooks() error {
	dir := m.config.HookDir
	if dir == "" {
		dir = models.DefaultHookDir()
	}
	if dir == "" {
		m.config.Printf("No hook directory found\n")
		return nil
	}
	return m.source.LoadDir(dir)
}

// DumpState writes <prefix>.rdram.bin and <prefix>.regs.json into the dump directory.
func (m *Machine) DumpState(prefix string) error {
	base := filepath.Join(m.config.DumpPath, prefix)
	if err := dump.DumpRDRAM(base+".rdram.bin", m.RDRAM()); err != nil {
		return err
	}
	return dump.DumpRegs(base+".regs.json", m.Regs())
}

// dumps never stop emulation
func (m *Machine) tryDump(prefix string) {
	if err := m.DumpState(prefix); err != nil {
		m.config.Printf("%v\n", err)
	}
}

func (m *Machine) SaveSnapshot(path string) error {
	err := dump.WriteFile(path, func(w io.Writer) error {
		return dump.WriteSnapshot(w, m.Regs(), m.RDRAM())
	})
	return errors.Wrap(err, "failed to save snapshot")
}

func (m *Machine) LoadSnapshot(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "failed to load snapshot")
	}
	defer f.Close()
	regs, words, err := dump.ReadSnapshot(f)
	if err != nil {
		return err
	}
	rdram := m.RDRAM()
	if len(words) != len(rdram) {
		return errors.Errorf("snapshot has %#x bytes of rdram, machine has %#x", len(words)*4, len(rdram)*4)
	}
	copy(rdram, words)
	*m.Regs() = *regs
	return nil
}

func (m *Machine) OnPC(c cpu.Core) error {
	return m.engine.OnPC(c)
}

func (m *Machine) OnInput(c cpu.Core, buttons uint32) error {
	return m.engine.OnInput(c, buttons)
}

// Reads inside [LogMin, LogMax) dump state once per LogMin, before hooks run.
func (m *Machine) OnRAMRead(c cpu.Core, addr uint32) error {
	cfg := m.config
	if addr >= cfg.LogMin && addr < cfg.LogMax {
		if !m.logDumped || m.lastLog != cfg.LogMin {
			m.lastLog, m.logDumped = cfg.LogMin, true
			m.tryDump(fmt.Sprintf("dma.0x%08X", cfg.LogMin))
		}
	}
	return m.engine.OnRAMRead(c, addr)
}

// A write to DumpTrigger dumps state after hooks run and before the store.
func (m *Machine) OnRAMWrite(c cpu.Core, addr uint32, value, mask uint64) error {
	if err := m.engine.OnRAMWrite(c, addr, value, mask); err != nil {
		return err
	}
	if m.config.DumpTrigger != 0 && addr == m.config.DumpTrigger {
		m.tryDump(fmt.Sprintf("trigger.0x%08X", addr))
	}
	return nil
}

func (m *Machine) OnCartRead(c cpu.Core, base, length, dst uint32) error {
	return m.engine.OnCartRead(c, base, length, dst)
}

func (m *Machine) OnCartWrite(c cpu.Core, base, length, dst uint32) error {
	return m.engine.OnCartWrite(c, base, length, dst)
}
