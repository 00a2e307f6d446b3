package main

import (
	"os"

	"github.com/psantana5/lxcwrap/cmd/lxcwrap/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
