package main

import (
	"os"

	"github.com/denysvitali/trustcore/cmd/trustcore/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
