package run

import (
	"os"

	"github.com/pkg/errors"

	"github.com/lunixbochs/hookcorn/go/cmd"
	dcmd "github.com/lunixbochs/hookcorn/go/debug/cmd"
)

// Main drives the machine from console command scripts. "-" or no
// arguments reads commands from stdin.
func Main(args []string) {
	c := cmd.NewHookcornCmd()
	c.ArgsUsage = "[script...]"
	c.RunMachine = func(scripts []string) error {
		ctx := &dcmd.Context{Writer: os.Stdout, M: c.Machine}
		if len(scripts) == 0 {
			scripts = []string{"-"}
		}
		for _, name := range scripts {
			if name == "-" {
				if err := dcmd.RunScript(ctx, os.Stdin); err != nil {
					return errors.Wrap(err, "stdin")
				}
				continue
			}
			f, err := os.Open(name)
			if err != nil {
				return errors.Wrap(err, "failed to open script")
			}
			err = dcmd.RunScript(ctx, f)
			f.Close()
			if err != nil {
				return errors.Wrap(err, name)
			}
		}
		return nil
	}
	os.Exit(c.Run(args))
}

func init() { cmd.Register("run", "run console command scripts against hooks", Main) }
