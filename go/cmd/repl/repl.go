package repl

import (
	"os"

	"github.com/lunixbochs/hookcorn/go/cmd"
	"github.com/lunixbochs/hookcorn/go/ui"
)

func Main(args []string) {
	c := cmd.NewHookcornCmd()
	c.RunMachine = func(_ []string) error {
		repl, err := ui.NewRepl(c.Machine)
		if err != nil {
			return err
		}
		repl.Run()
		return nil
	}
	os.Exit(c.Run(args))
}

func init() { cmd.Register("repl", "interactive hook console", Main) }
