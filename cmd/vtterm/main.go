package main

import (
	"os"

	"github.com/danielgatis/vtcore/cmd/vtterm/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
