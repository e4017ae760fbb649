package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/canonhq/canon/internal/cli"
	"github.com/canonhq/canon/internal/version"
)

func main() {
	rootCmd := cli.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "CANON",
		Section: "1",
		Source:  "canon " + version.Version,
		Manual:  "canon manual",
	}

	err := doc.GenMan(rootCmd, header, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
