package main

import (
	"os"

	"github.com/jaylee-quant/divscan/cmd/divscan/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
