// Package main is the entry point for the photofetch CLI.
package main

import (
	"os"

	"github.com/orcas-history/photofetch/internal/cli"
	"github.com/orcas-history/photofetch/pkg/version"
)

func main() {
	os.Exit(run())
}

// run executes the root command and maps its outcome to a process exit
// code. Runs that complete with failed downloads still exit zero; only
// malformed invocations and fatal setup errors exit non-zero.
func run() int {
	root := cli.NewRootCmd(version.GetVersion())
	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}
