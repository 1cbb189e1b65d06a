package main

import (
	"os"

	"github.com/spec-kit/support-desk/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
