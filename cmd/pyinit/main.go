package main

import (
	"os"

	"github.com/ariel-frischer/pyinit/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
