// Package main provides the querygraph command-line tool.
package main

import (
	"os"

	"github.com/leapstack-labs/querygraph/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
