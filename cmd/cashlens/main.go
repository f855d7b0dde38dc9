package main

import (
	"os"

	"cashlens/cmd/cashlens/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
