package main

import (
	"os"

	"github.com/atvfleet/maintsched/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
