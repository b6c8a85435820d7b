package dump

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"github.com/lunixbochs/hookcorn/go/models/cpu"
)

// RegsFile is the register dump written next to each RDRAM dump.
type RegsFile struct {
	PC uint32     `json:"pc"`
	GP [32]uint64 `json:"gp"`
}

func WriteRegs(w io.Writer, regs *cpu.Regs) error {
	out := RegsFile{PC: regs.PC}
	for i, v := range regs.GPR {
		out.GP[i] = uint64(v)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(&out), "register dump failed")
}

func DumpRegs(path string, regs *cpu.Regs) error {
	err := WriteFile(path, func(w io.Writer) error { return WriteRegs(w, regs) })
	return errors.Wrap(err, "register dump failed")
}

// ReadRegs parses a register dump.
func ReadRegs(r io.Reader) (*cpu.Regs, error) {
	var in RegsFile
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, errors.Wrap(err, "register dump is invalid")
	}
	regs := &cpu.Regs{PC: in.PC}
	for i, v := range in.GP {
		regs.GPR[i] = int64(v)
	}
	return regs, nil
}
