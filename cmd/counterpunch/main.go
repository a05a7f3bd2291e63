package main

import (
	"fmt"
	"os"

	"github.com/counterpunch/counterpunch-go/internal/cli"
)

var version = "dev" // set via ldflags during build

func main() {
	if err := cli.NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
