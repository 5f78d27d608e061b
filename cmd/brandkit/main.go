// brandkit extracts curated brand colour palettes from images.
//
// It runs as a CLI over single images or directories, or as an HTTP service.
package main

import (
	"os"

	"github.com/jmylchreest/brandkit/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
