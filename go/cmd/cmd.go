package cmd

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/lunixbochs/hookcorn/go"
	"github.com/lunixbochs/hookcorn/go/models"
)

// addrFlag is a uint32 flag accepting 0x/0b prefixes
type addrFlag uint32

func (a *addrFlag) String() string {
	return fmt.Sprintf("%#x", uint32(*a))
}

func (a *addrFlag) Set(value string) error {
	n, err := strconv.ParseUint(value, 0, 32)
	if err != nil {
		return err
	}
	*a = addrFlag(n)
	return nil
}

type HookcornCmd struct {
	Config *models.Config

	SetupFlags   func() error
	SetupMachine func() error
	RunMachine   func(args []string) error
	Teardown     func()

	// usage line suffix, e.g. "[script...]"
	ArgsUsage string

	Machine *hookcorn.Machine
	Flags   *flag.FlagSet
}

func NewHookcornCmd() *HookcornCmd {
	fs := flag.NewFlagSet("cli", flag.ExitOnError)
	return &HookcornCmd{Flags: fs}
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func (c *HookcornCmd) PrintError(err error) {
	// print an error, and a stacktrace if available
	fmt.Fprintf(os.Stderr, "%s\n", strings.Repeat("-", 40))
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	if err, ok := err.(stackTracer); ok {
		// full path, file:line and method for each frame
		var frames [][]string
		for _, f := range err.StackTrace() {
			fullpath := ""
			fileline := fmt.Sprintf("%s:%d", f, f)
			method := fmt.Sprintf("%n", f)

			tmp := strings.SplitN(fmt.Sprintf("%+s", f), "\n", 3)
			if len(tmp) == 2 {
				pathsplit := strings.Split(tmp[0], "/")
				method = pathsplit[len(pathsplit)-1]
				fullpath = strings.TrimSpace(tmp[1])
			}
			frames = append(frames, []string{fullpath, fileline, method})
			if method == "main.main" {
				break
			}
		}
		widths := make([]int, 3)
		for _, f := range frames {
			for i, s := range f {
				if len(s) > widths[i] {
					widths[i] = len(s)
				}
			}
		}
		for _, f := range frames {
			for i := 0; i < 2; i++ {
				if widths[i] > 0 {
					pad := strings.Repeat(" ", widths[i]-len(f[i]))
					fmt.Fprintf(os.Stderr, "%s%s | ", f[i], pad)
				}
			}
			fmt.Fprintf(os.Stderr, "%s()\n", f[2])
		}
	}
}

// Run parses argv, builds a Machine and runs it. It returns the process exit code.
func (c *HookcornCmd) Run(argv []string) int {
	fs := c.Flags
	hookDir := fs.String("hooks", "", "hook script directory (default: config dir hookcorn/hooks)")
	rdramSize := fs.Int("rdram", 0x800000, "RDRAM size in bytes")
	cartFile := fs.String("cart", "", "load cartridge ROM from <file>")
	loadSnap := fs.String("load", "", "restore registers and RDRAM from snapshot <file> before running")
	saveSnap := fs.String("save", "", "save registers and RDRAM to snapshot <file> after running")
	dumpDir := fs.String("dumpdir", ".", "directory for RDRAM and register dumps")
	var trigger, logMin, logMax addrFlag
	fs.Var(&trigger, "trigger", "dump state when this address is written")
	fs.Var(&logMin, "logmin", "dump state once when a read lands in [logmin, logmax)")
	fs.Var(&logMax, "logmax", "end of the read dump range")
	noCart := fs.Bool("nocart", false, "disable cartridge DMA hooks")
	noButtons := fs.Bool("nobuttons", false, "disable button hooks")
	verbose := fs.Bool("v", false, "verbose output")
	color := fs.Bool("color", false, "color register changes in verbose output")
	outfile := fs.String("o", "", "redirect hook output to file (default stderr)")

	fs.Usage = func() {
		usage := "Usage: %s [options]"
		if c.ArgsUsage != "" {
			usage += " " + c.ArgsUsage
		}
		fmt.Fprintf(os.Stderr, usage+"\n\nOptions:\n", argv[0])
		var flags []*flag.Flag
		fs.VisitAll(func(f *flag.Flag) { flags = append(flags, f) })
		models.PrintFlags(os.Stderr, flags)
		fmt.Fprintf(os.Stderr, "\nExample:\n  %s -hooks ./hooks -load boot.snap script.txt\n", argv[0])
	}
	if c.SetupFlags != nil {
		if err := c.SetupFlags(); err != nil {
			c.PrintError(err)
			return 1
		}
	}
	fs.Parse(argv[1:])

	config := &models.Config{
		Color:       *color,
		Verbose:     *verbose,
		HookDir:     *hookDir,
		RDRAMSize:   *rdramSize,
		NoButtons:   *noButtons,
		NoCart:      *noCart,
		DumpPath:    *dumpDir,
		DumpTrigger: uint32(trigger),
		LogMin:      uint32(logMin),
		LogMax:      uint32(logMax),
	}
	c.Config = config
	if *outfile != "" {
		out, err := os.OpenFile(*outfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			c.PrintError(errors.Wrap(err, "failed to open output"))
			return 1
		}
		defer out.Close()
		config.Output = out
	}

	m, err := hookcorn.NewMachine(config)
	if err != nil {
		c.PrintError(err)
		return 1
	}
	defer m.Close()
	c.Machine = m
	if c.Teardown != nil {
		defer c.Teardown()
	}

	if *cartFile != "" {
		rom, err := os.ReadFile(*cartFile)
		if err != nil {
			c.PrintError(errors.Wrap(err, "failed to load cart"))
			return 1
		}
		m.LoadCart(rom)
	}
	if err := m.LoadHooks(); err != nil {
		c.PrintError(err)
		return 1
	}
	if *loadSnap != "" {
		if err := m.LoadSnapshot(*loadSnap); err != nil {
			c.PrintError(err)
			return 1
		}
	}
	if c.SetupMachine != nil {
		if err := c.SetupMachine(); err != nil {
			c.PrintError(err)
			return 1
		}
	}
	if c.RunMachine != nil {
		if err := c.RunMachine(fs.Args()); err != nil {
			c.PrintError(err)
			return 1
		}
	}
	if *saveSnap != "" {
		if err := m.SaveSnapshot(*saveSnap); err != nil {
			c.PrintError(err)
			return 1
		}
	}
	return 0
}
