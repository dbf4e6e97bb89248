// Package main is the entry point for the calculator.
package main

import (
	"os"

	"github.com/dshills/calcmvc/cmd/calcmvc/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
