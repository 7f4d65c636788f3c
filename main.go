package main

import (
	"os"

	"github.com/ivasilev/secdojo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
