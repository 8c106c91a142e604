// Package main generates the markdown reference pages for querygraph from
// its cobra commands and registered dialects.
//
// Usage:
//
//	go run ./scripts/gendocs
//	go run ./scripts/gendocs -outdir=site/reference
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/querygraph/internal/cli"
	"github.com/leapstack-labs/querygraph/internal/cli/commands"
)

var outDirFlag = flag.String("outdir", "", "output directory (default: <project root>/docs)")

func main() {
	flag.Parse()

	projectRoot, err := findProjectRoot()
	if err != nil {
		log.Fatalf("failed to find project root: %v", err)
	}
	log.Printf("Project root: %s", projectRoot)

	outDir := *outDirFlag
	if outDir == "" {
		outDir = filepath.Join(projectRoot, "docs")
	}
	if err := commands.GenerateDocs(cli.NewRootCmd(), outDir); err != nil {
		log.Fatalf("failed to generate docs: %v", err)
	}
	log.Println("Done!")
}

// findProjectRoot walks up from current directory to find go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}
