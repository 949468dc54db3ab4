package main

import (
	"os"

	"github.com/aidanlsb/socialscope/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
