package cmd

import (
	"fmt"
	"io"

	"github.com/lunixbochs/hookcorn/go"
)

type Context struct {
	io.Writer
	M *hookcorn.Machine
}

func (c *Context) Printf(format string, a ...interface{}) (n int, err error) {
	return fmt.Fprintf(c, format, a...)
}
