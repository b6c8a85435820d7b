package cpu

import (
	"github.com/pkg/errors"
)

// Regs is the R4300 register state exposed to hooks.
// GPR values are stored sign-extended, the way the interpreter keeps them.
type Regs struct {
	PC  uint32
	GPR [32]int64
	HI  int64
	LO  int64
}

func (r *Regs) RegRead(n int) (int64, error) {
	if n < 0 || n >= len(r.GPR) {
		return 0, errors.Errorf("invalid register: %d", n)
	}
	return r.GPR[n], nil
}

// r0 is hardwired to zero on real hardware, but hooks are allowed to write it.
// The interpreter clears it again before the next instruction.
func (r *Regs) RegWrite(n int, val int64) error {
	if n < 0 || n >= len(r.GPR) {
		return errors.Errorf("invalid register: %d", n)
	}
	r.GPR[n] = val
	return nil
}
