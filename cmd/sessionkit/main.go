package main

import (
	"os"

	"github.com/msto63/sessionkit/cmd/sessionkit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
