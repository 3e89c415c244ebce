package main

import (
	"os"

	"github.com/PabloGalante/throne-companions/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
