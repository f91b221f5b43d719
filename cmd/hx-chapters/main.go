package main

import (
	"os"

	"github.com/user/hx-chapters/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
