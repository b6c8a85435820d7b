package main

import (
	"github.com/lunixbochs/hookcorn/go/cmd"

	_ "github.com/lunixbochs/hookcorn/go/cmd/repl"
	_ "github.com/lunixbochs/hookcorn/go/cmd/run"
)

func main() { cmd.Main() }
