package main

import (
	"os"

	"devsecrets/cmd/devsecrets/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		// cobra has printed it.
		os.Exit(1)
	}
}
