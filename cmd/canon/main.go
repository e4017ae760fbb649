package main

import (
	"os"

	"github.com/canonhq/canon/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
