package main

import (
	"os"

	"github.com/spiffcs/statcard/cmd"
)

func main() {
	if err := cmd.New().Execute(); err != nil {
		cmd.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
