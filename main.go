// ABOUTME: Entry point for campus-admin CLI
// ABOUTME: Terminal client for the school administration API

package main

import (
	"os"

	"github.com/markalston/campus-admin/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
