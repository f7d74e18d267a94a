// Package main generates markdown reference pages for sqlidator from the
// cobra command tree, the config defaults and the dialect registry.
//
// Usage:
//
//	go run ./scripts/gendocs -gen=cli -outdir=docs/cli
//	go run ./scripts/gendocs -gen=config -outdir=docs/reference
//	go run ./scripts/gendocs -gen=dialects -outdir=docs/reference
//	go run ./scripts/gendocs -gen=all
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
)

var (
	genFlag    = flag.String("gen", "all", "what to generate: cli, config, dialects, all")
	outDirFlag = flag.String("outdir", "", "output directory (defaults based on gen type)")
)

func main() {
	flag.Parse()

	validGenFlags := map[string]bool{"cli": true, "config": true, "dialects": true, "all": true}
	if !validGenFlags[*genFlag] {
		log.Fatalf("unknown -gen value: %s (use: cli, config, dialects, all)", *genFlag)
	}

	// Find project root (where go.mod is)
	projectRoot, err := findProjectRoot()
	if err != nil {
		log.Fatalf("failed to find project root: %v", err)
	}
	log.Printf("Project root: %s", projectRoot)

	if err := generate(*genFlag, projectRoot, *outDirFlag); err != nil {
		log.Fatal(err)
	}
	log.Println("Done!")
}

// generate runs the selected generators. An empty outDir picks the
// default location under docs/ for each page set.
func generate(gen, projectRoot, outDir string) error {
	dirFor := func(def string) string {
		if outDir != "" {
			return outDir
		}
		return filepath.Join(projectRoot, "docs", def)
	}

	if gen == "cli" || gen == "all" {
		if err := generateCLIDocs(dirFor("cli")); err != nil {
			return err
		}
	}
	if gen == "config" || gen == "all" {
		if err := generateConfigDocs(dirFor("reference")); err != nil {
			return err
		}
	}
	if gen == "dialects" || gen == "all" {
		if err := generateDialectDocs(dirFor("reference")); err != nil {
			return err
		}
	}
	return nil
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
