package main

import (
	"os"

	"github.com/orbital-cli/orbital/cmd/orbital/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
