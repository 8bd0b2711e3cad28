package main

import (
	"fmt"
	"os"

	"github.com/smokyabdulrahman/adhan/internal/cli"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=v1.0.0"
var version = "dev"

func main() {
	// Ctrl-C stops a running server or an in-flight download cleanly.
	if err := cli.Execute(cli.NewRootCmd(version)); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
