package main

import (
	"fmt"
	"os"

	"github.com/smokyabdulrahman/adhan/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Execute(cli.NewPlayerCmd(version)); err != nil {
		fmt.Fprintf(os.Stderr, "\nerror: %v\n", err)
		os.Exit(1)
	}
}
