package main

import (
	"os"

	"github.com/Harshitk-cp/litsynth/internal/config"
)

func main() {
	_ = config.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
