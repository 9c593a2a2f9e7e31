package main

import (
	"os"

	"github.com/bnema/rootbroker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
