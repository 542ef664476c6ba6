package main

import (
	"os"

	"github.com/bcdannyboy/stocsim/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
