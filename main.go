package main

import (
	"os"

	"github.com/Arthurvroum/odoo-ci/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
