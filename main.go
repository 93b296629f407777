package main

import (
	"os"

	"github.com/bsv-blockchain/mineblock/cmd/mineblock"
	"github.com/ordishs/gocore"
)

// Name used by build script for the binaries. (Please keep on single line)
const progname = "mineblock"

// Version & commit strings injected at build with -ldflags -X...
var version string
var commit string

func init() {
	gocore.SetInfo(progname, version, commit)
}

func main() {
	mineblock.Start(os.Args[1:], version, commit)
}
