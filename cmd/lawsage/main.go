// Package main provides the entry point for the lawsage CLI.
package main

import (
	"os"

	"github.com/tomwolfe/lawsage/cmd/lawsage/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
