package main

import (
	"os"

	"github.com/coachgolf/go_coach/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
