package main

import (
	"os"

	"github.com/Krosebrook/oneuptime/cmd/uptimectl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
