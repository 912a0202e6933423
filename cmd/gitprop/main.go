package main

import (
	"fmt"
	"runtime"
)

// Build metadata, overridden via -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	Execute()
}

// versionString renders the -V/--version line.
func versionString() string {
	short := commit
	if len(short) > 7 {
		short = short[:7]
	}
	return fmt.Sprintf("gitprop %s (commit %s, built %s, %s)", version, short, date, runtime.Version())
}
