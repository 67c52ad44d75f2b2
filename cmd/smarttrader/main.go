package main

import (
	"os"

	"github.com/rustyeddy/smarttrader/cmd/smarttrader/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
