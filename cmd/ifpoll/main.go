package main

import (
	"os"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	if err := execute(newRootCmd(newCLI(os.Stdout, os.Stderr))); err != nil {
		os.Exit(1)
	}
}
