// Package main is the entry point for the scriptviewer command-line tool.
package main

import (
	"os"

	"github.com/th3fanbus/scriptviewer/cmd/scriptviewer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
