package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.New(color.FgRed).Sprint("error:"), err)
		os.Exit(1)
	}
}
