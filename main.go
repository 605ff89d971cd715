package main

import (
	"os"

	"github.com/ziadkadry99/streamly/cmd"
	"github.com/ziadkadry99/streamly/internal/logging"
)

func main() {
	logging.Preinit()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
