package main

import (
	"os"

	"pfm-api/cmd/pfmctl/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
