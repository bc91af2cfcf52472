package main

import (
	"os"

	"github.com/Kavirubc/ci-changelog/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
