package main

import (
	"os"

	"github.com/rustyeddy/chaintrader/cmd/chaintrader/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
