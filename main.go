package main

import (
	"os"

	"github.com/serikch/evpredict/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
